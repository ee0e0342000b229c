package analytics

import "testing"

func hasAward(awards []Award, id AwardID) bool {
	for _, a := range awards {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestEvaluateMatchAwards_Sharpshooter(t *testing.T) {
	if !hasAward(EvaluateMatchAwards(PlayerMatchStats{HatsHit: 10}), AwardSharpshooter) {
		t.Error("should earn Sharpshooter with 10 hats")
	}
	if hasAward(EvaluateMatchAwards(PlayerMatchStats{HatsHit: 9}), AwardSharpshooter) {
		t.Error("should not earn Sharpshooter with 9 hats")
	}
}

func TestEvaluateMatchAwards_QuickDraw(t *testing.T) {
	if !hasAward(EvaluateMatchAwards(PlayerMatchStats{HatsHit: 3, AvgHatAgeMs: 1200}), AwardQuickDraw) {
		t.Error("should earn Quick Draw with 1200ms average")
	}
	if hasAward(EvaluateMatchAwards(PlayerMatchStats{HatsHit: 3, AvgHatAgeMs: 1600}), AwardQuickDraw) {
		t.Error("should not earn Quick Draw with 1600ms average")
	}
	if hasAward(EvaluateMatchAwards(PlayerMatchStats{HatsHit: 2, AvgHatAgeMs: 500}), AwardQuickDraw) {
		t.Error("should not earn Quick Draw with only 2 hits")
	}
}

func TestEvaluateMatchAwards_HatTypes(t *testing.T) {
	awards := EvaluateMatchAwards(PlayerMatchStats{HatsHit: 10, IceHats: 5, MagaHats: 5})
	if !hasAward(awards, AwardIceBreaker) {
		t.Error("should earn Ice Breaker with 5 ICE hats")
	}
	if !hasAward(awards, AwardCapCollector) {
		t.Error("should earn Cap Collector with 5 MAGA hats")
	}

	awards = EvaluateMatchAwards(PlayerMatchStats{HatsHit: 8, IceHats: 4, MagaHats: 4})
	if hasAward(awards, AwardIceBreaker) || hasAward(awards, AwardCapCollector) {
		t.Error("4 hats of a type should not earn a type award")
	}
}

func TestEvaluateMatchAwards_TriggerHappy(t *testing.T) {
	if !hasAward(EvaluateMatchAwards(PlayerMatchStats{HitsPerMinute: 20}), AwardTriggerHappy) {
		t.Error("should earn Trigger Happy at 20 hats per minute")
	}
}

func TestEvaluateMatchAwards_None(t *testing.T) {
	awards := EvaluateMatchAwards(PlayerMatchStats{})
	if awards == nil || len(awards) != 0 {
		t.Errorf("empty stats should earn an empty, non-nil list, got %v", awards)
	}
}
