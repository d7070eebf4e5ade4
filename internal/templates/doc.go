// Package templates provides starter configurations for vroute init.
//
// # Available Templates
//
//   - minimal: a home page and a not-found fallback
//   - docs: a documentation site with nested routes, a redirect and an
//     export list
//   - json: the minimal site as vroute.json
//
// # Usage
//
//	tmpl, err := templates.Get("docs")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(dir, templates.Config{ProjectName: "handbook"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
//	{{.ProjectName}}     - Name of the project
//	{{.Title}}           - Site title, defaults to the project name
//	{{.Addr}}            - Listen address
//
// Site route bodies are templates themselves, executed per request, so
// starter files escape their own actions as {{"{{"}}.Params.slug{{"}}"}}.
package templates
