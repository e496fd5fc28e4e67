package controller

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
	"aynext-storefront/service"
	"aynext-storefront/utils"
)

var pageTemplates = template.Must(template.New("layout").Parse(`
{{define "header"}}<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>AYNEXT - {{.Title}}</title></head>
<body>
<header><a href="/">AYNEXT</a>{{if .Session}} <span>{{.Session.UserName}}</span>{{else}} <a href="/login">Connexion</a>{{end}}</header>
{{end}}
{{define "footer"}}</body></html>{{end}}
{{define "home"}}{{template "header" .}}
<main>
  <h1>Hoodies personnalisés</h1>
  <p>Votre logo, votre couleur. {{.PriceLabel}}</p>
  <ul>{{range .Palette}}<li data-color="{{.Hex}}">{{.Name}}</li>{{end}}</ul>
  <button data-action="open-customizer">Personnaliser</button>
</main>
{{template "footer" .}}{{end}}
{{define "login"}}{{template "header" .}}
<main>
  <h1>Connexion</h1>
  {{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
  <a href="{{.AuthorizeURL}}">Se connecter avec Google</a>
</main>
{{template "footer" .}}{{end}}
`))

type pageData struct {
	Title        string
	Session      *models.Session
	PriceLabel   string
	Palette      []models.ColorOption
	AuthorizeURL string
	Error        string
}

// PageController renders the home and login pages
type PageController struct {
	sessions     service.SessionProviderInterface
	visitors     VisitorCookies
	authorizeURL string
}

// NewPageController creates a new PageController
func NewPageController(sessions service.SessionProviderInterface, visitors VisitorCookies, authorizeURL string) *PageController {
	return &PageController{
		sessions:     sessions,
		visitors:     visitors,
		authorizeURL: authorizeURL,
	}
}

func (c *PageController) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("❌ Error rendering %s page: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// Home handles GET /
func (c *PageController) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := c.sessions.Current(c.visitors.VisitorID(w, r))
	c.render(w, "home", pageData{
		Title:      "Accueil",
		Session:    session,
		PriceLabel: utils.FormatEUR(models.CustomHoodiePrice),
		Palette:    utils.Palette(),
	})
}

// Login handles GET /login
func (c *PageController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := c.sessions.Current(c.visitors.VisitorID(w, r))
	c.render(w, "login", pageData{
		Title:        "Connexion",
		Session:      session,
		AuthorizeURL: c.authorizeURL,
		Error:        r.URL.Query().Get("error"),
	})
}
