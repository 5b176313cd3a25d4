package web

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/zaocat/Purrfit/internal/chart"
	"github.com/zaocat/Purrfit/pkg/domain"
)

// The presentation layer is deliberately small: server-rendered pages with
// an inline SVG chart, no client scripting beyond form posts.

type loginData struct {
	Title   string
	Favicon string
	Error   bool
}

type pageData struct {
	Title     string
	Favicon   string
	Cats      []string
	ActiveCat string
	Window    chart.Window
	Records   []domain.WeightRecord
	Chart     chart.Projection
	Layout    chart.Layout
	Admin     bool
}

func polylinePoints(p chart.Projection) string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", pt.X, pt.Y)
	}
	return b.String()
}

func newTemplates() *template.Template {
	t := template.New("purrfit").Funcs(template.FuncMap{
		"polyline": polylinePoints,
	})
	return template.Must(t.Parse(pageTemplates))
}

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="icon" href="{{.Favicon}}">
</head>
<body>{{end}}

{{define "foot"}}</body>
</html>{{end}}

{{define "login"}}{{template "head" .}}
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error">用户名或密码错误</p>{{end}}
<form action="/auth/login" method="POST">
  <input type="text" name="username" placeholder="用户名" required>
  <input type="password" name="password" placeholder="密码" required>
  <button type="submit">登录</button>
</form>
{{template "foot" .}}{{end}}

{{define "chart"}}{{if .Chart.Points}}
<svg viewBox="0 0 {{.Layout.Width}} {{.Layout.Height}}" role="img">
  {{range .Chart.Grid}}
  <line x1="{{$.Layout.PadLeft}}" y1="{{.Y}}" x2="{{$.Layout.Width}}" y2="{{.Y}}" stroke="#eee"></line>
  <text x="0" y="{{.Y}}" font-size="10">{{printf "%.1f" .Value}}</text>
  {{end}}
  <polyline fill="none" stroke="#f90" stroke-width="2" points="{{polyline .Chart}}"></polyline>
  {{range .Chart.Points}}
  <circle cx="{{.X}}" cy="{{.Y}}" r="3" fill="#f90">
    <title>{{.Record.Date}} {{.Record.Weight}}kg{{if .Record.Note}} {{.Record.Note}}{{end}}</title>
  </circle>
  {{if .Labeled}}<text x="{{.X}}" y="{{$.Layout.Height}}" font-size="10" text-anchor="middle">{{.Record.Date}}</text>{{end}}
  {{end}}
</svg>
{{else}}<p>暂无记录</p>{{end}}{{end}}

{{define "tabs"}}
<nav>
  {{range .Cats}}<a href="?cat={{.}}"{{if eq . $.ActiveCat}} class="active"{{end}}>{{.}}</a> {{end}}
</nav>
<nav>
  <a href="?cat={{.ActiveCat}}&range=3m"{{if eq .Window "3m"}} class="active"{{end}}>近3月</a>
  <a href="?cat={{.ActiveCat}}&range=6m"{{if eq .Window "6m"}} class="active"{{end}}>近6月</a>
  <a href="?cat={{.ActiveCat}}&range=all"{{if eq .Window "all"}} class="active"{{end}}>全部</a>
</nav>
{{end}}

{{define "records"}}
<table>
  <thead><tr><th>日期</th><th>体重 (kg)</th><th>备注</th>{{if .Admin}}<th></th>{{end}}</tr></thead>
  <tbody>
  {{range .Records}}
  <tr>
    <td>{{.Date}}</td>
    <td>{{.Weight}}</td>
    <td>{{.Note}}</td>
    {{if $.Admin}}
    <td>
      <form action="/api/delete" method="POST">
        <input type="hidden" name="id" value="{{.ID}}">
        <input type="hidden" name="current_cat" value="{{$.ActiveCat}}">
        <button type="submit">删除</button>
      </form>
    </td>
    {{end}}
  </tr>
  {{end}}
  </tbody>
</table>
{{end}}

{{define "home"}}{{template "head" .}}
<h1>{{.Title}}</h1>
<p><a href="/login">登录</a></p>
{{template "tabs" .}}
{{template "chart" .}}
{{template "records" .}}
{{template "foot" .}}{{end}}

{{define "admin"}}{{template "head" .}}
<h1>{{.Title}}</h1>
<p><a href="/">首页</a> <a href="/logout">退出</a> <a href="/api/export?cat={{.ActiveCat}}">导出 CSV</a></p>
{{template "tabs" .}}
{{template "chart" .}}

<form action="/api/save" method="POST">
  <input type="hidden" name="id" value="">
  <input type="hidden" name="current_cat" value="{{.ActiveCat}}">
  <input type="date" name="date" required>
  <input type="number" name="weight" step="0.01" min="0" placeholder="体重 kg" required>
  <input type="text" name="name" value="{{.ActiveCat}}">
  <input type="text" name="note" placeholder="备注">
  <button type="submit">保存</button>
</form>

{{template "records" .}}

<details>
  <summary>导入 CSV</summary>
  <form action="/api/import" method="POST" enctype="multipart/form-data">
    <input type="hidden" name="cat" value="{{.ActiveCat}}">
    <input type="file" name="file" accept=".csv">
    <textarea name="csv" placeholder="Date,Weight,Name,Note"></textarea>
    <button type="submit">导入</button>
  </form>
</details>

<details>
  <summary>重命名</summary>
  <form action="/api/rename_cat" method="POST">
    <input type="hidden" name="old" value="{{.ActiveCat}}">
    <input type="text" name="new" placeholder="新名字" required>
    <button type="submit">重命名</button>
  </form>
</details>

<details>
  <summary>设置</summary>
  <form action="/api/settings" method="POST">
    <input type="text" name="title" value="{{.Title}}">
    <input type="text" name="favicon" value="{{.Favicon}}">
    <textarea name="cats">{{range .Cats}}{{.}}
{{end}}</textarea>
    <button type="submit">保存设置</button>
  </form>
  <form action="/api/backup" method="POST">
    <button type="submit">备份</button>
  </form>
  <form action="/api/reset" method="POST" onsubmit="return confirm('确定清空全部数据？')">
    <button type="submit">清空数据</button>
  </form>
</details>
{{template "foot" .}}{{end}}
`
