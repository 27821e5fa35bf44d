package main

import (
	"html/template"
	"io"
	"time"

	"github.com/leoluk/typeperf2/collector"
	"github.com/leoluk/typeperf2/perflib"
)

type dumpTpl struct {
	Objects   []*perflib.PerfObject
	Query     string
	QueryTime time.Duration
	Count     int
}

var dumpTemplate = template.Must(template.New("dump").Funcs(template.FuncMap{
	"mangle":     collector.MakePrometheusLabel,
	"has_labels": collector.HasPromotedLabels,
	"names":      perflib.InstanceNames,
	"labels": func(n uint, instance *perflib.PerfInstance) map[string]string {
		m := make(map[string]string)
		labels := collector.PromotedLabelsForObject(n)
		values := collector.PromotedLabelValuesForInstance(n, instance)

		for i, v := range labels {
			m[v] = values[i]
		}

		return m
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>typeperf2 dump</title>
</head>
<body>
<h1>typeperf2 dump</h1>

<p>Query: {{ .Query }}</p>
<p>Object count: {{ .Objects | len }}</p>
<p>Counter count: {{ .Count }}</p>
<p>Query duration: {{ .QueryTime }}</p>

<ul>
{{ range .Objects }}
	<li><a href="#{{ .NameIndex }}">[{{ .NameIndex }}] {{ .Name }}</a></li>
{{ end }}
</ul>

{{ range .Objects }}
<h3 id="{{ .NameIndex }}">[{{ .NameIndex }}] {{ .Name }}</h3>
<p>{{ .HelpText }}</p>

<table border="1">
    <tr>
        <th>Name</th>
        <th>Mangled name</th>
        <th>Type</th>
        <th>IsCounter</th>
        <th>IsNsCtr</th>
        <th>Value</th>
        <th>Help Text</th>
    </tr>
    {{ if .Instances }}
    {{ with index .Instances 0 }}
    {{ range .Counters }}
    <tr>
        {{ with .Def }}
        <td>[{{ .NameIndex }}] {{ .Name }}</td>
        <td>{{ . | mangle }}</td>
        <td>0x{{ .CounterType | printf "%x" }}</td>
        <td>{{ .IsCounter }}</td>
        <td>{{ .IsNanosecondCounter }}</td>
        {{ end }}
        <td>{{ .Value }}</td>
        <td>{{ .Def.HelpText }}</td>
    </tr>
    {{ end }}
    {{ end }}
    {{ end }}
</table>

{{ $objIdx := .NameIndex }}
{{ $hasLabels := has_labels $objIdx }}
{{ $names := names .Instances }}
{{ if .MultiInstance }}
Instances:

<ul>
    {{ range $i, $instance := .Instances }}
    {{ if $hasLabels }}
    <li>name=<b>{{ index $names $i }}</b>
    {{ range $k, $v := labels $objIdx $instance }}
    {{ $k }}={{ $v }}
    {{ end }}
    </li>
    {{ else }}
    <li>{{ index $names $i }}</li>
    {{ end }}
    {{ end }}
</ul>
{{ end }}
{{ end }}
</body>
</html>
`))

func writeHTML(w io.Writer, data dumpTpl) error {
	return dumpTemplate.Execute(w, data)
}
