// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// reportTemplate renders the ranked list as a standalone HTML page.
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"add1":    func(i int) int { return i + 1 },
	"score":   func(v float64) string { return fmt.Sprintf("%.3f", v) },
	"authors": func(names []string) string { return strings.Join(names, ", ") },
	"trim":    func(s string) string { return truncate(s, 800) },
}).Parse(reportHTML))

type reportData struct {
	Generated string
	Count     int
	Ranked    []types.ScoredCandidate
}

// WriteHTML writes the ranked list as a self-contained HTML report.
func WriteHTML(path string, ranked []types.ScoredCandidate) error {
	data := reportData{
		Generated: rssTimeNow().UTC().Format("2006-01-02 15:04 UTC"),
		Count:     len(ranked),
		Ranked:    ranked,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating HTML report: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>zotwatcher digest</title>
<style>
body { font-family: Georgia, serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.4rem; border-bottom: 2px solid #222; padding-bottom: .3rem; }
.meta { color: #666; font-size: .85rem; }
article { margin: 1.5rem 0; padding-bottom: 1rem; border-bottom: 1px solid #ddd; }
article h2 { font-size: 1.05rem; margin: 0 0 .2rem; }
article h2 a { color: #1a4d8f; text-decoration: none; }
.scores { font-family: monospace; font-size: .8rem; color: #444; }
.abstract { font-size: .9rem; margin: .4rem 0 0; }
</style>
</head>
<body>
<h1>zotwatcher digest</h1>
<p class="meta">Generated {{.Generated}} &mdash; {{.Count}} candidates</p>
{{range $i, $c := .Ranked}}
<article>
<h2>{{add1 $i}}. {{if $c.URL}}<a href="{{$c.URL}}">{{$c.Title}}</a>{{else}}{{$c.Title}}{{end}}</h2>
<p class="meta">{{authors $c.Authors}}{{if $c.Journal}} &mdash; {{$c.Journal}}{{end}}{{if $c.Date}} ({{$c.Date}}){{end}} &mdash; via {{$c.Source}}</p>
<p class="scores">total {{score $c.TotalScore}} | semantic {{score $c.Scores.Semantic}} | recency {{score $c.Scores.Time}} | whitelist {{score $c.Scores.Whitelist}}</p>
{{if $c.Abstract}}<p class="abstract">{{trim $c.Abstract}}</p>{{end}}
</article>
{{end}}
</body>
</html>
`
