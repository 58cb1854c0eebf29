package history

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2025, 4, 12, 9, 0, 0, 0, time.UTC)

func TestGroupEmptyInput(t *testing.T) {
	got := Group(nil)
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d conversations", len(got))
	}
}

func TestThreadedExampleScenario(t *testing.T) {
	rows := []Row{
		{ThreadID: "a", ModelID: "deepseek-v3", Prompt: "Hello world how are you today", Response: "Fine!", CreatedAt: t0},
		{ThreadID: "a", ModelID: "deepseek-v3", Prompt: "Tell me more please", Response: "Sure thing.", CreatedAt: t0.Add(5 * time.Minute)},
	}

	got := Group(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}
	conv := got[0]
	if conv.Title != "Hello world how are you today" {
		t.Fatalf("title = %q", conv.Title)
	}
	if !conv.CreatedAt.Equal(t0) {
		t.Fatalf("created_at = %v, want %v", conv.CreatedAt, t0)
	}
	wantRoles := []string{"user", "bot", "user", "bot"}
	if len(conv.Messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(conv.Messages))
	}
	for i, role := range wantRoles {
		if conv.Messages[i].Role != role {
			t.Fatalf("message %d role = %q, want %q", i, conv.Messages[i].Role, role)
		}
	}
	if conv.Messages[1].ModelID != "deepseek-v3" {
		t.Fatalf("bot message lost model id: %+v", conv.Messages[1])
	}
}

func TestTitleEllipsisRule(t *testing.T) {
	cases := []struct {
		prompt string
		want   string
	}{
		{"one two three four five", "one two three four five"},
		{"one two three four five six", "one two three four five..."},
		{"  spaced   out\twords  here   now  ", "spaced out words here now"},
		{"short", "short"},
	}
	for _, tc := range cases {
		rows := []Row{{ThreadID: "t", Prompt: tc.prompt, Response: "ok", CreatedAt: t0}}
		got := Group(rows)
		if len(got) != 1 {
			t.Fatalf("prompt %q: expected 1 conversation, got %d", tc.prompt, len(got))
		}
		if got[0].Title != tc.want {
			t.Fatalf("prompt %q: title = %q, want %q", tc.prompt, got[0].Title, tc.want)
		}
	}
}

func TestInterleavedThreadsStaySeparate(t *testing.T) {
	rows := []Row{
		{ThreadID: "a", Prompt: "first in a", Response: "r1", CreatedAt: t0},
		{ThreadID: "b", Prompt: "first in b", Response: "r2", CreatedAt: t0.Add(time.Minute)},
		{ThreadID: "a", Prompt: "second in a", Response: "r3", CreatedAt: t0.Add(2 * time.Minute)},
	}

	got := Group(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(got))
	}

	var a, b *Conversation
	for i := range got {
		switch got[i].ID {
		case "a":
			a = &got[i]
		case "b":
			b = &got[i]
		}
	}
	if a == nil || b == nil {
		t.Fatalf("missing thread conversations: %+v", got)
	}
	if len(a.Messages) != 4 {
		t.Fatalf("thread a should have 4 messages, got %d", len(a.Messages))
	}
	if a.Messages[0].Content != "first in a" || a.Messages[2].Content != "second in a" {
		t.Fatalf("thread a ordering corrupted: %+v", a.Messages)
	}
	if len(b.Messages) != 2 {
		t.Fatalf("thread b should have 2 messages, got %d", len(b.Messages))
	}
	// Newest-first output: b was created after a.
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected newest-first order [b a], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestThreadedRowWithoutResponse(t *testing.T) {
	rows := []Row{
		{ThreadID: "a", Prompt: "question one here", Response: "answer", CreatedAt: t0},
		{ThreadID: "a", Prompt: "question two pending", CreatedAt: t0.Add(time.Minute)},
	}
	got := Group(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}
	// Second row contributes only the user message.
	if len(got[0].Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got[0].Messages))
	}
}

func TestTimeGapSplitting(t *testing.T) {
	pair := func(at time.Time, prompt string) []Row {
		return []Row{
			{Prompt: prompt, CreatedAt: at},
			{Prompt: prompt, Response: "reply", ModelID: "deepseek-v3", CreatedAt: at.Add(10 * time.Second)},
		}
	}

	// 31-minute gap splits.
	rows := append(pair(t0, "first conversation starts here"), pair(t0.Add(31*time.Minute), "second conversation starts here")...)
	got := Group(rows)
	if len(got) != 2 {
		t.Fatalf("31m gap: expected 2 conversations, got %d", len(got))
	}

	// 29-minute gap does not.
	rows = append(pair(t0, "first conversation starts here"), pair(t0.Add(29*time.Minute), "still the same conversation")...)
	got = Group(rows)
	if len(got) != 1 {
		t.Fatalf("29m gap: expected 1 conversation, got %d", len(got))
	}
	if len(got[0].Messages) != 4 {
		t.Fatalf("29m gap: expected 4 messages, got %d", len(got[0].Messages))
	}
}

func TestDanglingUntaggedRowDropped(t *testing.T) {
	rows := []Row{
		{Prompt: "paired prompt goes first", CreatedAt: t0},
		{Prompt: "paired prompt goes first", Response: "reply", CreatedAt: t0.Add(time.Second)},
		{Prompt: "dangling final prompt", CreatedAt: t0.Add(2 * time.Second)},
	}
	got := Group(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}
	if len(got[0].Messages) != 2 {
		t.Fatalf("expected dangling row dropped, got %d messages", len(got[0].Messages))
	}
}

func TestSingleUnpairedRowDiscardsConversation(t *testing.T) {
	rows := []Row{{Prompt: "a lonely unanswered question", CreatedAt: t0}}
	got := Group(rows)
	if len(got) != 0 {
		t.Fatalf("expected 0 conversations, got %d", len(got))
	}
}

func TestEmptyTitleConversationDiscarded(t *testing.T) {
	rows := []Row{{ThreadID: "a", Prompt: "   ", Response: "reply", CreatedAt: t0}}
	got := Group(rows)
	if len(got) != 0 {
		t.Fatalf("expected blank-prompt conversation discarded, got %d", len(got))
	}
}

func TestGroupDeterministicUnderShuffle(t *testing.T) {
	rows := []Row{
		{ThreadID: "a", Prompt: "thread a opening prompt", Response: "r", CreatedAt: t0},
		{ThreadID: "a", Prompt: "thread a follow up", Response: "r", CreatedAt: t0.Add(time.Minute)},
		{ThreadID: "b", Prompt: "thread b opening prompt", Response: "r", CreatedAt: t0.Add(2 * time.Minute)},
		{Prompt: "untagged conversation one start", CreatedAt: t0.Add(3 * time.Minute)},
		{Prompt: "untagged conversation one start", Response: "r", CreatedAt: t0.Add(4 * time.Minute)},
		{Prompt: "untagged conversation two start", CreatedAt: t0.Add(40 * time.Minute)},
		{Prompt: "untagged conversation two start", Response: "r", CreatedAt: t0.Add(41 * time.Minute)},
	}

	want := Group(append([]Row(nil), rows...))

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]Row(nil), rows...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Group(shuffled)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("trial %d: shuffled input changed output\nwant %+v\ngot  %+v", trial, want, got)
		}
	}

	// Newest-first overall ordering.
	for i := 1; i < len(want); i++ {
		if want[i].CreatedAt.After(want[i-1].CreatedAt) {
			t.Fatalf("conversations not newest-first: %v before %v", want[i-1].CreatedAt, want[i].CreatedAt)
		}
	}
}

func TestMixedInputKeepsThreadedRowsOutOfGapLogic(t *testing.T) {
	// A tagged row far from its thread peers must not split the thread, and
	// untagged rows must not absorb tagged ones.
	rows := []Row{
		{ThreadID: "a", Prompt: "tagged early prompt here", Response: "r", CreatedAt: t0},
		{Prompt: "untagged prompt in between", CreatedAt: t0.Add(time.Minute)},
		{Prompt: "untagged prompt in between", Response: "r", CreatedAt: t0.Add(2 * time.Minute)},
		{ThreadID: "a", Prompt: "tagged hours later", Response: "r", CreatedAt: t0.Add(5 * time.Hour)},
	}

	got := Group(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(got))
	}
	for _, conv := range got {
		if conv.ID == "a" && len(conv.Messages) != 4 {
			t.Fatalf("thread a must keep all rows despite the gap, got %d messages", len(conv.Messages))
		}
	}
}
