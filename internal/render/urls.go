package render

import "strings"

// URLBuilder turns a route name and its params into a URL. The server and
// the static exporter inject different builders into the same templates.
type URLBuilder func(name string, params map[string]string) string

// ServeURLs builds absolute paths for the live server.
func ServeURLs() URLBuilder {
	return func(name string, params map[string]string) string {
		switch name {
		case "homepage":
			return "/"
		case "daily":
			return "/daily"
		case "post":
			return "/posts/" + params["slug"]
		case "group":
			return "/groups/" + params["slug"]
		case "collection":
			return "/collections/" + params["slug"]
		case "column":
			return "/columns/" + params["column"]
		case "subcolumn":
			return "/columns/" + params["column"] + "/" + params["subcolumn"]
		case "static":
			return "/static/" + strings.TrimPrefix(params["path"], "/")
		case "feed":
			return "/feed.xml"
		case "group_feed":
			return "/groups/" + params["slug"] + "/feed.xml"
		case "comments":
			return "/posts/" + params["slug"] + "/comments"
		default:
			return "/"
		}
	}
}

// StaticURLs builds directory-style URLs for the exported site, prefixed
// with the hosting sub-path (e.g. a GitHub Pages repository name).
func StaticURLs(baseURL string) URLBuilder {
	base := "/"
	if baseURL != "" {
		base = "/" + strings.Trim(baseURL, "/") + "/"
	}

	return func(name string, params map[string]string) string {
		var path string
		switch name {
		case "homepage":
			path = ""
		case "daily":
			path = "daily/"
		case "post":
			path = "posts/" + params["slug"] + "/"
		case "group":
			path = "groups/" + params["slug"] + "/"
		case "collection":
			path = "collections/" + params["slug"] + "/"
		case "column":
			path = "columns/" + params["column"] + "/"
		case "subcolumn":
			path = "columns/" + params["column"] + "/" + params["subcolumn"] + "/"
		case "static":
			path = "static/" + strings.TrimPrefix(params["path"], "/")
		case "feed":
			path = "index.xml"
		case "group_feed":
			path = "groups/" + params["slug"] + ".xml"
		default:
			path = ""
		}
		return base + path
	}
}
