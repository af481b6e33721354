package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bobmcallan/revpulse/internal/models"
)

func TestComputeStaffMentions(t *testing.T) {
	reviews := []models.Review{
		mkReview("r1", 5, "positive", 0),
		mkReview("r2", 5, "positive", 1),
		mkReview("r3", 2, "negative", 2),
		mkReview("r4", 4, "positive", 3),
	}
	reviews[0].StaffMentions = "Maria"
	reviews[0].Text = "Maria was wonderful"
	reviews[1].StaffMentions = "maria, Jonas"
	reviews[1].Text = "Great service from Maria and Jonas"
	reviews[2].StaffMentions = "Maria"
	reviews[2].Text = "Maria ignored us"
	reviews[3].StaffMentions = "Jonas"
	reviews[3].Text = "Jonas again, solid"

	insights := computeStaff(reviews)

	if len(insights.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(insights.Members))
	}

	maria := insights.Members[0]
	if maria.Name != "Maria" {
		t.Fatalf("first member = %q, want Maria (most mentioned)", maria.Name)
	}
	if maria.TotalMentions != 3 || maria.PositiveMentions != 2 || maria.NegativeMentions != 1 {
		t.Errorf("Maria = %d total / %d positive / %d negative, want 3/2/1",
			maria.TotalMentions, maria.PositiveMentions, maria.NegativeMentions)
	}
	if len(maria.Examples) != 3 {
		t.Errorf("Maria has %d examples, want 3", len(maria.Examples))
	}
}

func TestComputeStaffExampleCap(t *testing.T) {
	var reviews []models.Review
	for i := 0; i < 6; i++ {
		r := mkReview(fmt.Sprintf("r%d", i), 5, "positive", i)
		r.StaffMentions = "Maria"
		r.Text = fmt.Sprintf("Visit %d, Maria was great", i)
		reviews = append(reviews, r)
	}

	insights := computeStaff(reviews)
	if len(insights.Members[0].Examples) != maxStaffExamples {
		t.Errorf("examples = %d, want capped at %d", len(insights.Members[0].Examples), maxStaffExamples)
	}
}

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("é", 200)
	got := snippet(long)
	runes := []rune(got)
	if len(runes) != maxSnippetLen+1 {
		t.Errorf("snippet length = %d runes, want %d plus ellipsis", len(runes), maxSnippetLen+1)
	}
	if runes[len(runes)-1] != '…' {
		t.Error("snippet should end with an ellipsis")
	}
	if short := snippet("short"); short != "short" {
		t.Errorf("snippet(short) = %q, want unchanged", short)
	}
}

func TestStaffTrend(t *testing.T) {
	// Older half negative, recent half positive -> up
	var mentions []models.Review
	sentiments := []string{"negative", "negative", "positive", "positive"}
	for i, sentiment := range sentiments {
		mentions = append(mentions, mkReview(fmt.Sprintf("m%d", i), 3, sentiment, i))
	}
	if got := staffTrend(mentions); got != models.TrendUp {
		t.Errorf("trend = %q, want up", got)
	}

	// Too few mentions -> stable
	if got := staffTrend(mentions[:3]); got != models.TrendStable {
		t.Errorf("trend with 3 mentions = %q, want stable", got)
	}
}
