// Package scoring computes the quality/relevance score of discovered
// enterprises and ranks them into presentable prospects. Signals are
// additive, rule-based, and individually bounded; the weights live in
// config so they can be tuned without a code change. The defaults are
// empirically tuned and must be treated as the reference behavior.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/cgr-group/prospect-api/internal/config"
	"github.com/cgr-group/prospect-api/internal/model"
)

// Keyword patterns over French industry vocabulary. These drive the
// argument-quality gate, the manufacturing bonus, the distributor penalty,
// and the R&D bonus.
var (
	factoryPattern = regexp.MustCompile(`(?i)(usine|site de production|atelier|fabrication|fabrique|production en série|manufactur|fonderie|plasturgie|emboutissage|usinage|injection)`)

	productPattern = regexp.MustCompile(`(?i)(ressort|fil plié|fil métallique|pièce découpée|pièce métallique|clip|agrafe|découpage|visserie|axe|tige|sous-ensemble)`)

	distributorPattern = regexp.MustCompile(`(?i)(distributeur|distribution|négoce|negoce|revendeur|grossiste|import[- ]export|trading|marketplace)`)

	engineeringPattern = regexp.MustCompile(`(?i)(r&d|recherche et développement|bureau d'études|ingénierie|innovation|conception|prototype)`)

	recognizedSourcePattern = regexp.MustCompile(`(?i)(linkedin\.com|societe\.com|pappers\.fr|infogreffe\.fr|verif\.com|kompass\.com)`)
)

// Score computes the bounded quality score of a normalized enterprise and a
// short human-readable reason. The result is clamped to [0, 10] and rounded
// to one decimal.
func Score(e model.Enterprise, cfg config.ScoringConfig) (float64, string) {
	var pts float64
	var reasons []string

	// Target products the prospect buys that we can address.
	if n := len(e.CGRPotential.TargetProducts); n > 0 {
		var p float64
		switch {
		case n >= 3:
			p = cfg.TargetProductMax
		case n == 2:
			p = cfg.TargetProductMax * 2 / 3
		default:
			p = cfg.TargetProductMax / 3
		}
		pts += p
		reasons = append(reasons, fmt.Sprintf("%d produits cibles", n))
	}

	// Catalog products we would propose.
	if n := len(e.CGRPotential.ProposedProducts); n > 0 {
		p := float64(n) * cfg.ProposedPerProduct
		if p > cfg.ProposedMax {
			p = cfg.ProposedMax
		}
		pts += p
		reasons = append(reasons, fmt.Sprintf("%d produits CGR proposés", n))
	}

	// Argument quality: length tiers combined with keyword presence, not
	// length alone. A long argument with no industrial substance scores low.
	arg := e.CGRPotential.ApproachArgument
	if argPts := argumentPoints(arg, cfg.ArgumentMax); argPts > 0 {
		pts += argPts
		reasons = append(reasons, "argument étayé")
	}

	// Diversity of the prospect's own product range.
	if n := len(e.OwnProducts); n > 0 {
		p := float64(n) * cfg.OwnProductPerItem
		if p > cfg.OwnProductMax {
			p = cfg.OwnProductMax
		}
		pts += p
	}

	// Supplier-identification specificity.
	pts += supplierPoints(e.CurrentSupplierEstimate, cfg.SupplierMax)

	// Source quality: enough sources and at least one recognized domain.
	if len(e.Sources) >= 3 && hasRecognizedSource(e.Sources) {
		pts += cfg.SourceQualityMax
		reasons = append(reasons, "sources vérifiables")
	}

	// Website presence.
	if strings.HasPrefix(e.Website, "http") {
		pts += cfg.WebsiteBonus
	}

	// Description quality.
	desc := e.ActivityDescription
	if factoryPattern.MatchString(desc) {
		switch {
		case len(desc) > cfg.DescriptionLongLen:
			pts += cfg.DescriptionBonusLong
		case len(desc) > cfg.DescriptionShortLen:
			pts += cfg.DescriptionBonusShort
		}
	}

	// R&D / engineering bonus.
	if engineeringPattern.MatchString(arg) {
		pts += cfg.EngineeringBonus
		reasons = append(reasons, "signal R&D")
	}

	// Distributor/reseller hard anti-signal, applied after all additive
	// scoring: middlemen are not manufacturing prospects.
	if distributorPattern.MatchString(desc) || distributorPattern.MatchString(arg) {
		pts -= cfg.DistributorPenalty
		reasons = append(reasons, "profil distributeur (pénalité)")
	}

	return clamp(pts), strings.Join(reasons, ", ")
}

// argumentPoints scores the approach argument. Length tiers set the base,
// factory and specific-product keywords each add a share, and the total is
// capped at max.
func argumentPoints(arg string, max float64) float64 {
	if arg == "" {
		return 0
	}

	var base float64
	switch {
	case len(arg) > 400:
		base = max * 0.4
	case len(arg) > 250:
		base = max * 0.3
	case len(arg) > 150:
		base = max * 0.2
	case len(arg) > 80:
		base = max * 0.1
	}

	var kw float64
	if factoryPattern.MatchString(arg) {
		kw += max * 0.3
	}
	if productPattern.MatchString(arg) {
		kw += max * 0.3
	}

	p := base + kw
	if p > max {
		p = max
	}
	return p
}

// supplierPoints scores how specifically the current supplier is
// identified. A comma-separated multi-supplier list is the strongest
// signal.
func supplierPoints(estimate string, max float64) float64 {
	estimate = strings.TrimSpace(estimate)
	switch {
	case estimate == "":
		return 0
	case len(estimate) > 60 && strings.Contains(estimate, ","):
		return max
	case len(estimate) > 30:
		return max * 0.7
	case len(estimate) > 10:
		return max * 0.4
	default:
		return max * 0.2
	}
}

func hasRecognizedSource(sources []string) bool {
	for _, s := range sources {
		if recognizedSourcePattern.MatchString(s) {
			return true
		}
	}
	return false
}

// clamp bounds a score to [0, 10] and rounds to one decimal.
func clamp(s float64) float64 {
	if s < 0 {
		s = 0
	}
	if s > 10 {
		s = 10
	}
	return math.Round(s*10) / 10
}
