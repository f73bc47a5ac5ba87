package sddraft

import (
	"fmt"
	"io/fs"

	"github.com/beevik/etree"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/pkg/webtool"
)

// Patcher ensures configuration properties in service definition drafts,
// rewriting the document in place.
//
// Thread-Safety: a Patcher may be shared, but two concurrent patches of the
// same file race on the document; callers must serialize per path.
type Patcher struct {
	fs     filesystem.Provider
	logger webtool.Logger
}

// NewPatcher creates a new Patcher with all dependencies injected.
// Panics if fs or logger is nil.
func NewPatcher(fs filesystem.Provider, logger webtool.Logger) *Patcher {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Patcher{fs: fs, logger: logger}
}

// EnableJobDirReuse ensures the draft at path carries reusejobdir=true.
// Synchronous services answer noticeably faster when the server reuses the
// job directory between requests.
func (p *Patcher) EnableJobDirReuse(path string) error {
	return p.EnsureProperty(path, webtool.JobDirReuseProperty, "true")
}

// EnsureProperty guarantees that exactly the first property named name in
// the draft's configuration property sequence has the given value.
//
// If the key exists, the first matching node's value text is updated (a
// text node is created only when the value element has none). If the key is
// absent, the first property node is deep-copied, rewritten to name/value,
// and appended to the end of the sequence. An absent key combined with an
// empty sequence is a distinct error (webtool.ErrNoTemplateProperty).
//
// The untouched nodes keep their identity and order. The operation is
// idempotent: re-running after success finds the property on the first pass
// and rewrites the same document.
func (p *Patcher) EnsureProperty(path, name, value string) error {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return wrapParseError(err, path)
	}

	sequence, err := propertySequence(doc, path)
	if err != nil {
		return err
	}

	props := sequence.ChildElements()
	found := false
	for _, prop := range props {
		key, val, err := propertyPair(prop, path)
		if err != nil {
			return err
		}
		if found || key.Text() != name {
			// Duplicate keys: only the first match is updated; the scan
			// still runs to completion so malformed nodes are reported.
			continue
		}
		val.SetText(value)
		found = true
		p.logger.Verbose("Updated existing property %q to %q", name, value)
	}

	if !found {
		if len(props) == 0 {
			return noTemplateError(path, name)
		}
		clone := props[0].Copy()
		key, val, err := propertyPair(clone, path)
		if err != nil {
			return err
		}
		key.SetText(name)
		val.SetText(value)
		sequence.AddChild(clone)
		p.logger.Verbose("Appended new property %q=%q", name, value)
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize draft: %w", err)
	}

	perm := draftPerm(p.fs, path)
	if err := p.fs.WriteFile(path, out, perm); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// propertySequence locates the element holding the ordered property nodes:
// the single child of the first ConfigurationProperties element inside the
// first Definition element.
func propertySequence(doc *etree.Document, path string) (*etree.Element, error) {
	def := doc.FindElement("//Definition")
	if def == nil {
		return nil, structureError(path, "no Definition element found")
	}

	cfg := def.FindElement(".//ConfigurationProperties")
	if cfg == nil {
		return nil, structureError(path, "no ConfigurationProperties element found in Definition")
	}

	children := cfg.ChildElements()
	if len(children) == 0 {
		return nil, structureError(path, "ConfigurationProperties has no property array child")
	}
	return children[0], nil
}

// propertyPair returns the key and value elements of a property node.
func propertyPair(prop *etree.Element, path string) (key, value *etree.Element, err error) {
	kids := prop.ChildElements()
	if len(kids) < 2 {
		return nil, nil, structureError(path,
			fmt.Sprintf("property node <%s> does not have key and value elements", prop.Tag))
	}
	return kids[0], kids[1], nil
}

// draftPerm preserves the draft's file mode across the rewrite, defaulting
// to 0644 when the mode cannot be read.
func draftPerm(provider filesystem.Provider, path string) fs.FileMode {
	info, err := provider.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

// Verify Patcher implements the DraftPatcher interface at compile time
var _ webtool.DraftPatcher = (*Patcher)(nil)
