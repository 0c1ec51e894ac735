// Package templates renders pages with html/template from an fs.FS.
//
// A page spec is the path of a page template inside the file system. Every
// page is parsed together with the shared layouts and partials; the parsed
// set is cached per spec. Pages execute against a *render.PageContext, so
// templates build links with {{ .URL "name" }} and {{ .Static "file" }}.
//
// The function map carries the component helpers used by the showcase
// templates: prefix, postfix, split, slotIsEmpty, beautifyHTML, responsive,
// dict, markdown, title, prettyHTML and showCode.
package templates
