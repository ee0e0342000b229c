package analytics

type AwardID string

const (
	AwardSharpshooter AwardID = "sharpshooter"
	AwardQuickDraw    AwardID = "quick_draw"
	AwardIceBreaker   AwardID = "ice_breaker"
	AwardCapCollector AwardID = "cap_collector"
	AwardTriggerHappy AwardID = "trigger_happy"
)

type Award struct {
	ID          AwardID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

var AllAwards = map[AwardID]Award{
	AwardSharpshooter: {ID: AwardSharpshooter, Name: "Sharpshooter", Description: "Knocked off 10+ hats in a match", Icon: "🎯"},
	AwardQuickDraw:    {ID: AwardQuickDraw, Name: "Quick Draw", Description: "Hats lasted under 1.5s on average (min. 3 hits)", Icon: "⚡"},
	AwardIceBreaker:   {ID: AwardIceBreaker, Name: "Ice Breaker", Description: "Knocked off 5+ ICE hats", Icon: "🧊"},
	AwardCapCollector: {ID: AwardCapCollector, Name: "Cap Collector", Description: "Knocked off 5+ MAGA hats", Icon: "🧢"},
	AwardTriggerHappy: {ID: AwardTriggerHappy, Name: "Trigger Happy", Description: "20+ hats per minute", Icon: "🔫"},
}

// EvaluateMatchAwards checks which awards a player earned in a single match.
func EvaluateMatchAwards(stats PlayerMatchStats) []Award {
	earned := []Award{}

	if stats.HatsHit >= 10 {
		earned = append(earned, AllAwards[AwardSharpshooter])
	}

	if stats.HatsHit >= 3 && stats.AvgHatAgeMs > 0 && stats.AvgHatAgeMs < 1500 {
		earned = append(earned, AllAwards[AwardQuickDraw])
	}

	if stats.IceHats >= 5 {
		earned = append(earned, AllAwards[AwardIceBreaker])
	}

	if stats.MagaHats >= 5 {
		earned = append(earned, AllAwards[AwardCapCollector])
	}

	if stats.HitsPerMinute >= 20 {
		earned = append(earned, AllAwards[AwardTriggerHappy])
	}

	return earned
}
