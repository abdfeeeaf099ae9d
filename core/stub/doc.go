// Package stub generates the minimal HTML documents that bootstrap the
// client-side MarkdownUp viewer.
//
// A stub has an empty body and a module script that imports the viewer and
// points it at a resource relative to the stub's URL:
//
//	g := stub.New()
//	page := g.Generate("README.md")   // MarkdownUp.run(window, 'README.md')
//	index := g.GenerateIndex()        // MarkdownUp.run(window, 'markdown_up_index')
//
// The asset URLs are configuration (WithStylesheets, WithModuleURL), not a
// contract.
package stub
