package render

import (
	"html/template"
	"strings"

	"noon-assistant/internal/domain"
)

const nameMaxLength = 40

var carouselTemplate = template.Must(template.New("carousel").Funcs(template.FuncMap{
	"truncate": truncateName,
}).Parse(`<div style="display: flex; overflow-x: auto; padding: 10px; width: 100%">
{{- range .}}
  <div style="flex: 0 0 auto; text-align: center; margin-right: 20px;">
    <a href="{{.ProductURL}}" target="_blank">
      <img src="{{.ImageURL}}" width="150" style="border-radius: 8px;">
    </a>
    <div style="font-weight:bold; margin-top:5px;">{{truncate .Name}}</div>
    <div>{{.Brand}}</div>
    <div>AED {{.DisplayPrice}}</div>
    <div>&#11088; {{.DisplayRating}}</div>
  </div>
{{- end}}
</div>
`))

// Carousel renders the relevance-filtered products as a horizontally
// scrollable card list.
func Carousel(products []domain.ProductCandidate) (string, error) {
	var sb strings.Builder
	if err := carouselTemplate.Execute(&sb, products); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= nameMaxLength {
		return name
	}
	return string(runes[:nameMaxLength]) + "..."
}
