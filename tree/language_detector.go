package tree

import "path/filepath"

// LanguageDetector maps filenames/extensions to languages.
type LanguageDetector struct {
	extensionMap map[string]string
	filenameMap  map[string]string
}

// NewLanguageDetector seeds defaults for the formats the merge engine
// understands plus common fallbacks.
func NewLanguageDetector() *LanguageDetector {
	ld := &LanguageDetector{
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	ld.extensionMap[".go"] = "go"
	ld.extensionMap[".md"] = "markdown"
	ld.extensionMap[".markdown"] = "markdown"
	ld.extensionMap[".txt"] = "text"
	ld.extensionMap[".py"] = "text"
	ld.extensionMap[".js"] = "text"
	ld.extensionMap[".ts"] = "text"
	ld.extensionMap[".java"] = "text"
	ld.extensionMap[".c"] = "text"
	ld.extensionMap[".yaml"] = "text"
	ld.extensionMap[".yml"] = "text"
	ld.extensionMap[".json"] = "text"
	ld.filenameMap["Dockerfile"] = "text"
	ld.filenameMap["Makefile"] = "text"
	return ld
}

// Detect returns the best-effort language identifier, falling back to the
// line-oriented text parser for anything unrecognized.
func (ld *LanguageDetector) Detect(path string) string {
	if path == "" {
		return "text"
	}
	base := filepath.Base(path)
	if lang, ok := ld.filenameMap[base]; ok {
		return lang
	}
	if lang, ok := ld.extensionMap[filepath.Ext(base)]; ok {
		return lang
	}
	return "text"
}
