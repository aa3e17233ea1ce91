package engine

import "fmt"

// LanguageService is the host's adapter over its own AST: it tells the
// engine which discriminant key a node reports (so inference and
// validation rules can be registered once per node class rather than per
// instance) and how those keys relate to each other (so a rule registered
// for a base class also fires for its subclasses).
type LanguageService interface {
	// GetLanguageNodeKey returns node's discriminant key, e.g. a concrete
	// AST class name.
	GetLanguageNodeKey(node any) string
	// GetAllSubKeys returns every key that is a (possibly transitive)
	// subclass of key, not including key itself.
	GetAllSubKeys(key string) []string
	// GetAllSuperKeys returns every key that is a (possibly transitive)
	// superclass of key, not including key itself.
	GetAllSuperKeys(key string) []string
	// IsLanguageNode reports whether v is a node belonging to this host
	// language at all, as opposed to some unrelated value that ended up in
	// the same generic slot.
	IsLanguageNode(v any) bool
}

// FlatLanguageService is the trivial LanguageService: every node's key is
// its own Go dynamic type name, with no super/sub-key hierarchy. It is
// the default a New engine uses until the host supplies its own, and it
// is enough for a host whose AST has no class hierarchy worth expressing.
type FlatLanguageService struct{}

func (FlatLanguageService) GetLanguageNodeKey(node any) string {
	return fmt.Sprintf("%T", node)
}

func (FlatLanguageService) GetAllSubKeys(string) []string { return nil }

func (FlatLanguageService) GetAllSuperKeys(string) []string { return nil }

func (FlatLanguageService) IsLanguageNode(v any) bool { return v != nil }

// languageKeyResolver adapts a LanguageService to infer.KeyResolver, the
// narrower contract the inference collector actually needs.
type languageKeyResolver struct {
	language LanguageService
}

func (r languageKeyResolver) KeyOf(node any) string {
	return r.language.GetLanguageNodeKey(node)
}

func (r languageKeyResolver) SuperKeysOf(key string) []string {
	return r.language.GetAllSuperKeys(key)
}
