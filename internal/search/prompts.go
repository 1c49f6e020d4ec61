package search

import (
	"fmt"
	"strings"

	"github.com/cgr-group/prospect-api/internal/model"
)

// Prompt builders. All prompts demand strict JSON with a known top-level
// discriminator key so the extractor can anchor on it; the response
// schema is spelled out per field because provider adherence is best
// when the shape is explicit.

const enterpriseSystemPrompt = `Tu es un expert en prospection B2B industrielle pour CGR, fabricant français de ressorts et pièces métalliques techniques (ressorts de compression, torsion, traction, fil plié, pièces découpées, clips, sous-ensembles).
Tu identifies des entreprises industrielles susceptibles d'acheter ces produits.
Réponds UNIQUEMENT avec un objet JSON valide, sans texte avant ni après, au format :
{"entreprises": [{"name": "", "website": "", "activityDescription": "", "ownProducts": [], "cgrPotential": {"targetProducts": [], "proposedProducts": [], "approachArgument": ""}, "currentSupplierEstimate": "", "sources": [], "companySize": "", "geographicZone": ""}]}`

func enterpriseUserPrompt(req model.EnterpriseSearchRequest, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trouve %d entreprises industrielles françaises correspondant aux critères suivants.\n", count)

	if len(req.Sectors) > 0 {
		fmt.Fprintf(&b, "Secteurs : %s.\n", strings.Join(req.Sectors, ", "))
	}
	if req.FreeTextSector != "" {
		fmt.Fprintf(&b, "Secteur complémentaire : %s.\n", req.FreeTextSector)
	}
	zones := req.GeographicZones
	if req.FreeTextZone != "" {
		zones = append(zones, req.FreeTextZone)
	}
	if len(zones) > 0 {
		fmt.Fprintf(&b, "Zones géographiques : %s.\n", strings.Join(zones, ", "))
	} else {
		b.WriteString("Zone géographique : France entière.\n")
	}
	if req.CompanySize != "" && req.CompanySize != string(model.SizeAny) {
		fmt.Fprintf(&b, "Taille d'entreprise ciblée : %s.\n", req.CompanySize)
	}
	products := req.Products
	if len(products) == 0 {
		products = model.DefaultCGRProducts
	}
	fmt.Fprintf(&b, "Produits CGR à placer : %s.\n", strings.Join(products, ", "))
	if len(req.Exclusions) > 0 {
		fmt.Fprintf(&b, "Exclure impérativement : %s.\n", strings.Join(req.Exclusions, ", "))
	}
	if len(req.FactoryReferences) > 0 {
		fmt.Fprintf(&b, "Usines de référence comparables : %s.\n", strings.Join(req.FactoryReferences, ", "))
	}
	b.WriteString("Privilégie les fabricants avec production en France, exclus les distributeurs et revendeurs. Cite tes sources.")
	return b.String()
}

const brainstormSystemPrompt = `Tu es un consultant en stratégie industrielle pour CGR, fabricant français de ressorts et pièces métalliques techniques.
Tu identifies des marchés applicatifs porteurs pour ces produits.
Réponds UNIQUEMENT avec un objet JSON valide au format :
{"markets": [{"marketName": "", "justification": "", "applicableCgrProducts": [], "exampleCompanies": [], "targetCompanySize": "", "estimatedVolume": ""}]}
Chaque justification doit être détaillée et argumentée (au moins 150 mots).`

func brainstormUserPrompt(req model.BrainstormRequest, marketCount int, products []string, zone string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Propose exactement %d opportunités de marché pour les produits suivants : %s.\n",
		marketCount, strings.Join(products, ", "))

	if len(req.Sectors) > 0 {
		fmt.Fprintf(&b, "Répartis les opportunités sur les secteurs : %s.\n", strings.Join(req.Sectors, ", "))
	}
	if req.FreeTextSector != "" {
		fmt.Fprintf(&b, "Tiens compte du contexte : %s.\n", req.FreeTextSector)
	}
	fmt.Fprintf(&b, "Zone géographique : %s.\n", zone)
	b.WriteString("Pour chaque marché, justifie le potentiel avec des données concrètes et cite des entreprises exemples.")
	return b.String()
}

const competitorAnalysisSystemPrompt = `Tu es un analyste en intelligence concurrentielle pour le secteur des composants métalliques industriels.
Réponds UNIQUEMENT avec un objet JSON valide au format :
{"analysis": {"companySummary": "", "productsServices": [], "targetMarkets": [], "clientCompanies": [], "apparentStrengths": [], "potentialWeaknesses": [], "communicationStrategy": "", "sources": []}}`

func competitorAnalysisUserPrompt(name string) string {
	return fmt.Sprintf(`Analyse en profondeur le concurrent "%s" : résumé de l'entreprise, produits et services, marchés cibles, entreprises clientes connues, forces apparentes, faiblesses potentielles, stratégie de communication. Appuie-toi sur des sources publiques récentes et cite-les.`, name)
}

const competitorIdentifySystemPrompt = `Tu es un analyste en intelligence concurrentielle pour le secteur des ressorts et pièces métalliques techniques.
Tu identifies les concurrents directs d'une entreprise donnée.
Réponds UNIQUEMENT avec un objet JSON valide au format :
{"competitors": [{"name": "", "website": "", "geographicPresence": "", "targetMarkets": [], "companySize": "", "estimatedRevenue": "", "productSpecialties": [], "productionType": [], "recentPublications": [], "recentNews": [], "competitiveStrengths": [], "marketPositioning": "", "contactInfo": "", "sources": []}]}
Identifie entre 3 et 8 concurrents pertinents.`

func competitorIdentifyUserPrompt(req model.CompetitorIdentifyRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Identifie les concurrents directs de l'entreprise \"%s\"", req.CompanyName)
	if req.Website != "" {
		fmt.Fprintf(&b, " (site : %s)", req.Website)
	}
	b.WriteString(".\n")
	zone := req.GeographicZone
	if zone == "" {
		zone = model.DefaultGeographicZone
	}
	fmt.Fprintf(&b, "Zone géographique prioritaire : %s, concurrents européens pertinents inclus.\n", zone)
	b.WriteString("Pour chaque concurrent, détaille positionnement, spécialités produits, type de production, actualités récentes et forces concurrentielles. Cite tes sources.")
	return b.String()
}

const pitchSystemPrompt = `Tu es un commercial expert de CGR, fabricant français de ressorts et pièces métalliques techniques.
Tu rédiges des accroches de prise de contact courtes, personnalisées et professionnelles, en français.
Réponds uniquement avec le texte de l'accroche, sans préambule.`

func pitchUserPrompt(contact model.Contact, company, product string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rédige une accroche de 3 à 4 phrases pour contacter %s %s, %s chez %s.\n",
		contact.FirstName, contact.LastName, contact.Position, company)
	if product != "" {
		fmt.Fprintf(&b, "Produit CGR à mettre en avant : %s.\n", product)
	}
	b.WriteString("L'accroche doit mentionner la fonction du contact et proposer un échange court.")
	return b.String()
}
