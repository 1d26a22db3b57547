package subscription

import (
	"strings"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

const (
	// minHeuristicConfidence is the pattern confidence an unknown service
	// needs before it is treated as a subscription.
	minHeuristicConfidence = 0.7

	// heuristicDiscount scales confidence for non-catalog classifications.
	heuristicDiscount = 0.8
)

// indicatorKeywords suggest a merchant sells a subscription.
var indicatorKeywords = []string{
	"subscription", "monthly", "annual", "premium", "pro", "plus", "membership",
	".com", ".io", "app", "cloud", "online", "digital", "media", "entertainment", "streaming",
}

type categoryRule struct {
	category model.SubscriptionCategory
	keywords []string
}

// categoryRules is scanned in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{model.CategoryStreaming, []string{"stream", "video", "tv", "movie", "film", "entertainment", "media"}},
	{model.CategoryMusic, []string{"music", "audio", "radio", "podcast", "sound"}},
	{model.CategoryCloudStorage, []string{"cloud", "storage", "backup", "drive", "hosting"}},
	{model.CategorySoftware, []string{"software", "app", "saas", ".io", "dev", "code"}},
	{model.CategoryNews, []string{"news", "times", "journal", "magazine", "press"}},
	{model.CategoryFitness, []string{"fitness", "gym", "yoga", "workout", "health"}},
	{model.CategoryGaming, []string{"game", "gaming", "play"}},
	{model.CategoryEducation, []string{"learn", "course", "academy", "class", "edu"}},
	{model.CategoryUtilities, []string{"phone", "mobile", "wireless", "internet", "electric", "energy", "water"}},
}

// Classify decides whether a confirmed pattern is a subscription. Catalog
// services are recognized by name; anything else must look like a monthly or
// yearly subscription with high confidence. It returns false for patterns
// that are not confirmed or do not qualify.
func Classify(pattern model.RecurringPattern) (model.SubscriptionClassification, bool) {
	if pattern.Status != model.PatternConfirmed {
		return model.SubscriptionClassification{}, false
	}

	if svc, ok := LookupService(pattern.MerchantName); ok {
		c := baseClassification(pattern)
		c.ServiceName = svc.Name
		c.Category = svc.Category
		c.ServiceURL = svc.URL
		c.Icon = svc.Icon
		c.Confidence = pattern.Confidence
		c.Source = model.SourceCatalog
		return c, true
	}

	if !looksLikeSubscription(pattern) {
		return model.SubscriptionClassification{}, false
	}

	c := baseClassification(pattern)
	c.ServiceName = FormatServiceName(pattern.MerchantName)
	c.Category = GuessCategory(pattern.MerchantName)
	c.Confidence = common.Round2(pattern.Confidence * heuristicDiscount)
	c.Source = model.SourceHeuristic
	return c, true
}

// ClassifyAll classifies each pattern and returns the ones that qualify, in input order.
func ClassifyAll(patterns []model.RecurringPattern) []model.SubscriptionClassification {
	var out []model.SubscriptionClassification
	for _, p := range patterns {
		if c, ok := Classify(p); ok {
			out = append(out, c)
		}
	}
	return out
}

func looksLikeSubscription(pattern model.RecurringPattern) bool {
	if pattern.Frequency != model.FrequencyMonthly && pattern.Frequency != model.FrequencyYearly {
		return false
	}
	if pattern.Confidence < minHeuristicConfidence {
		return false
	}
	return containsAny(strings.ToLower(pattern.MerchantName), indicatorKeywords)
}

// GuessCategory returns the category of the first rule whose keywords appear
// in the merchant name, or CategoryOther.
func GuessCategory(merchantName string) model.SubscriptionCategory {
	lower := strings.ToLower(merchantName)
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			return rule.category
		}
	}
	return model.CategoryOther
}

func baseClassification(pattern model.RecurringPattern) model.SubscriptionClassification {
	c := model.SubscriptionClassification{
		PatternID:    pattern.ID,
		Amount:       pattern.ExpectedAmount,
		Currency:     pattern.Currency,
		BillingCycle: pattern.Frequency,
		AnnualCost:   AnnualCost(pattern.ExpectedAmount, pattern.Frequency),
	}
	if !pattern.LastOccurrence.IsZero() {
		last := pattern.LastOccurrence
		c.LastBillingDate = &last
	}
	if !pattern.NextExpected.IsZero() {
		next := pattern.NextExpected
		c.NextBillingDate = &next
	}
	return c
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
