package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates
var templatesFS embed.FS

// LoadTemplates installs the embedded HTML pages on the engine
func LoadTemplates(r *gin.Engine) {
	tmpl := template.Must(template.New("").ParseFS(templatesFS, "templates/*/*.html"))
	r.SetHTMLTemplate(tmpl)
}
