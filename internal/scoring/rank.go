package scoring

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/config"
	"github.com/cgr-group/prospect-api/internal/model"
)

// ToProspect projects a scored enterprise into its presentation shape.
func ToProspect(e model.Enterprise, score float64, reason string) model.Prospect {
	return model.Prospect{
		Company: e.Name,
		Sector:  sectorFromDescription(e.ActivityDescription),
		Size:    e.CompanySize,
		Address: e.GeographicZone,
		Website: e.Website,
		Score:   score,
		Reason:  reason,
		Sources: e.Sources,
		CGRData: e.CGRPotential,
	}
}

// Rank scores every enterprise and sorts descending. The sort is stable:
// ties retain provider-returned order.
func Rank(enterprises []model.Enterprise, cfg config.ScoringConfig) []model.Prospect {
	prospects := make([]model.Prospect, 0, len(enterprises))
	for _, e := range enterprises {
		score, reason := Score(e, cfg)
		prospects = append(prospects, ToProspect(e, score, reason))
	}
	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].Score > prospects[j].Score
	})
	return prospects
}

// SelectProspects ranks candidates and applies the quality backfill policy:
// when fewer than cfg.BackfillRatio of the requested count clear the good
// threshold, a second pass admits candidates scoring in
// [cfg.BackfillMin, cfg.BackfillMax) rather than returning a short list.
// This trades precision for recall deliberately. Returns the selected
// prospects and the number admitted by backfill.
func SelectProspects(enterprises []model.Enterprise, requested int, cfg config.ScoringConfig) ([]model.Prospect, int) {
	ranked := Rank(enterprises, cfg)

	selected := make([]model.Prospect, 0, requested)
	for _, p := range ranked {
		if len(selected) == requested {
			break
		}
		if p.Score >= cfg.GoodThreshold {
			selected = append(selected, p)
		}
	}

	needed := int(math.Ceil(cfg.BackfillRatio * float64(requested)))
	if len(selected) >= needed {
		return selected, 0
	}

	backfilled := 0
	for _, p := range ranked {
		if len(selected) == requested {
			break
		}
		if p.Score >= cfg.BackfillMin && p.Score < cfg.BackfillMax && p.Score < cfg.GoodThreshold {
			selected = append(selected, p)
			backfilled++
		}
	}

	if backfilled > 0 {
		zap.L().Info("scoring: quality backfill admitted low-band candidates",
			zap.Int("requested", requested),
			zap.Int("backfilled", backfilled),
		)
		// Keep the final list in rank order.
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].Score > selected[j].Score
		})
	}

	return selected, backfilled
}

// sectorFromDescription derives a short sector label from the first clause
// of the activity description.
func sectorFromDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	for _, sep := range []string{". ", " : ", " - ", ", "} {
		if idx := strings.Index(desc, sep); idx > 0 {
			desc = desc[:idx]
			break
		}
	}
	if runes := []rune(desc); len(runes) > 80 {
		desc = strings.TrimSpace(string(runes[:80]))
	}
	return desc
}
