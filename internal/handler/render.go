package handler

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Renderer plugs html/template into Echo for the server-rendered pages.
// The pages themselves are deliberately plain; the interesting part of
// the view layer is which session may see which data, not the markup.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() *Renderer {
	return &Renderer{templates: template.Must(template.New("pages").Parse(pageTemplates))}
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

const pageTemplates = `
{{define "login"}}<!DOCTYPE html>
<html><head><title>habitloop – sign in</title></head><body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">Sign in failed. Check your username and password.</p>{{end}}
<form method="post" action="/login">
  <label>Username <input name="username" autocomplete="username"></label>
  <label>Password <input name="password" type="password" autocomplete="current-password"></label>
  <button type="submit">Sign in</button>
</form>
<p><a href="/register">Create an account</a></p>
</body></html>{{end}}

{{define "register"}}<!DOCTYPE html>
<html><head><title>habitloop – register</title></head><body>
<h1>Create an account</h1>
{{if eq .Error "username"}}<p class="error">That username is already taken.</p>{{end}}
{{if eq .Error "email"}}<p class="error">That email is already registered.</p>{{end}}
{{if eq .Error "missing"}}<p class="error">All fields are required.</p>{{end}}
<form method="post" action="/register">
  <label>Username <input name="username" autocomplete="username"></label>
  <label>Email <input name="email" type="email" autocomplete="email"></label>
  <label>Password <input name="password" type="password" autocomplete="new-password"></label>
  <button type="submit">Register</button>
</form>
<p><a href="/login">Back to sign in</a></p>
</body></html>{{end}}

{{define "habits"}}<!DOCTYPE html>
<html><head><title>habitloop – your habits</title></head><body>
<h1>{{.Username}}'s habits</h1>
<ul>
{{range .Habits}}<li>{{.Name}}{{if .Description}}: {{.Description}}{{end}}</li>{{else}}<li>No habits yet.</li>{{end}}
</ul>
<p><a href="/dashboard">Dashboard</a></p>
<form method="post" action="/logout"><button type="submit">Sign out</button></form>
</body></html>{{end}}

{{define "dashboard"}}<!DOCTYPE html>
<html><head><title>habitloop – dashboard</title></head><body>
<h1>Dashboard for {{.Username}}</h1>
<table>
<tr><th>Habit</th><th>Total</th><th>Last 7 days</th></tr>
{{range .Summaries}}<tr><td>{{.Name}}</td><td>{{.Total}}</td><td>{{.LastSeven}}</td></tr>{{end}}
</table>
<p><a href="/habits">Your habits</a></p>
</body></html>{{end}}

{{define "error"}}<!DOCTYPE html>
<html><head><title>habitloop – error</title></head><body>
<h1>Something went wrong</h1>
{{if eq .Code "unauthorized"}}<p>You are not allowed to view that page.</p>{{else}}<p>Please try again later.</p>{{end}}
<p><a href="/habits">Back to your habits</a></p>
</body></html>{{end}}
`
