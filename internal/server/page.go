package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/TobiSchelling/foodpipe/internal/warehouse"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

func (s *Server) handleIndex(c *gin.Context) {
	stats, err := s.wh.GetStats(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}

	var buf bytes.Buffer
	err = s.page.Execute(&buf, map[string]any{
		"Title": "Statistiques",
		"Body":  renderMarkdown(statsMarkdown(stats)),
	})
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// statsMarkdown lays out the statistics page.
func statsMarkdown(stats *warehouse.Stats) string {
	var b strings.Builder

	b.WriteString("# Statistiques\n\n")
	fmt.Fprintf(&b, "**%d** produits en base.\n\n", stats.TotalProducts)

	avg, grade := averageGrade(stats)
	if avg == nil {
		b.WriteString("Nutri-Score moyen : **n/a**\n\n")
	} else {
		fmt.Fprintf(&b, "Nutri-Score moyen : **%.1f** (grade **%s**)\n\n", *avg, *grade)
	}

	writeCounts(&b, "Par région", "Région", stats.ByRegion)
	writeCounts(&b, "Par catégorie", "Catégorie", stats.ByCategory)

	b.WriteString("---\n\n")
	b.WriteString("API : [`/api/products`](/api/products) · [`/api/stats`](/api/stats) · [`/health`](/health)\n")
	return b.String()
}

func writeCounts(b *strings.Builder, title, column string, counts []warehouse.LabelCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n| %s | Produits |\n|---|---:|\n", title, column)
	for _, lc := range counts {
		label := lc.Label
		if label == "" {
			label = "(aucune)"
		}
		fmt.Fprintf(b, "| %s | %d |\n", strings.ReplaceAll(label, "|", `\|`), lc.Count)
	}
	b.WriteString("\n")
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}
