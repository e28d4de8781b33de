package classification

// Classification identifies the delivery intent of a source folder.
type Classification string

const (
	ToPaperless   Classification = "to_paperless"
	ToBookkeeping Classification = "to_bookkeeping"
	ToBoth        Classification = "to_both"
)

// Action identifies one delivery backend.
type Action string

const (
	ActionDocumentAPI Action = "document_api"
	ActionEmail       Action = "email"
)

var allClassifications = []Classification{
	ToPaperless,
	ToBookkeeping,
	ToBoth,
}

var classificationSet = func() map[Classification]struct{} {
	set := make(map[Classification]struct{}, len(allClassifications))
	for _, class := range allClassifications {
		set[class] = struct{}{}
	}
	return set
}()

// All returns every classification in scan order.
func All() []Classification {
	out := make([]Classification, len(allClassifications))
	copy(out, allClassifications)
	return out
}

// FromFolder maps a folder name onto a classification. Folder names outside
// the fixed set are not classifications; such folders are ignored by the
// scanner rather than treated as errors.
func FromFolder(name string) (Classification, bool) {
	class := Classification(name)
	_, ok := classificationSet[class]
	if !ok {
		return "", false
	}
	return class, true
}

// Folder returns the source folder name carrying this classification.
func (c Classification) Folder() string {
	return string(c)
}

// Valid reports whether the classification belongs to the closed set.
func (c Classification) Valid() bool {
	_, ok := classificationSet[c]
	return ok
}

var routes = map[Classification][]Action{
	ToPaperless:   {ActionDocumentAPI},
	ToBookkeeping: {ActionEmail},
	ToBoth:        {ActionDocumentAPI, ActionEmail},
}

// Actions returns the fixed, non-empty, ordered set of delivery actions
// required for documents carrying this classification. The mapping is pure
// and total over the closed classification set.
func Actions(c Classification) []Action {
	actions := routes[c]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}
