package classification_test

import (
	"testing"

	"paperflow/internal/classification"
)

func TestFromFolderAcceptsOnlyTheFixedSet(t *testing.T) {
	for _, name := range []string{"to_paperless", "to_bookkeeping", "to_both"} {
		class, ok := classification.FromFolder(name)
		if !ok {
			t.Fatalf("expected %q to classify", name)
		}
		if class.Folder() != name {
			t.Fatalf("round trip mismatch: %q != %q", class.Folder(), name)
		}
	}
	for _, name := range []string{"done", "to_bookkeeper", "TO_PAPERLESS", "", "to_paperless2"} {
		if _, ok := classification.FromFolder(name); ok {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestActionsRouting(t *testing.T) {
	cases := []struct {
		class classification.Classification
		want  []classification.Action
	}{
		{classification.ToPaperless, []classification.Action{classification.ActionDocumentAPI}},
		{classification.ToBookkeeping, []classification.Action{classification.ActionEmail}},
		{classification.ToBoth, []classification.Action{classification.ActionDocumentAPI, classification.ActionEmail}},
	}
	for _, tc := range cases {
		got := classification.Actions(tc.class)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v want %v", tc.class, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v want %v", tc.class, got, tc.want)
			}
		}
	}
}

func TestActionsReturnsACopy(t *testing.T) {
	first := classification.Actions(classification.ToBoth)
	first[0] = classification.ActionEmail
	second := classification.Actions(classification.ToBoth)
	if second[0] != classification.ActionDocumentAPI {
		t.Fatal("Actions must not expose internal routing state")
	}
}
