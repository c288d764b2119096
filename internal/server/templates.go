package server

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Options Payoff Simulator</title>
<style>
body { font-family: sans-serif; font-size: 14px; margin: 20px; color: #222; }
.dashboard { display: flex; gap: 20px; max-width: 1000px; }
.inputs { width: 250px; }
.inputs label { display: block; margin-bottom: 8px; }
.inputs input[type=number] { display: block; width: 200px; }
fieldset { border: 1px solid #ccc; margin: 8px 0; }
.message { padding: 12px; background: #fff4e5; border: 1px solid #f0c36d; }
.summary td, .summary th { padding: 2px 10px; text-align: right; }
.summary td:first-child, .summary th:first-child { text-align: left; }
</style>
</head>
<body>
<div class="dashboard">
<form class="inputs" method="get" action="/">
<h2>Options Payoff Simulator</h2>
<input type="hidden" name="submitted" value="1">
<label>Strike Price ($)<input type="number" name="strike" step="1" value="{{.Strike}}"></label>
<label>Premium ($ per share)<input type="number" name="premium" step="0.1" value="{{.Premium}}"></label>
<label>Cost Basis ($)<input type="number" name="basis" step="1" value="{{.Basis}}"></label>
<label>Contract Size (shares)<input type="number" name="contract_size" step="1" value="{{.ContractSize}}"></label>
<label><input type="checkbox" name="per_share" value="true"{{if .PerShare}} checked{{end}}> Per Share</label>
<label><input type="checkbox" name="show_profit" value="true"{{if .ShowProfit}} checked{{end}}> Show Profit/Loss</label>
<fieldset>
<legend>Strategies to Plot</legend>
{{range .Options}}<label><input type="checkbox" name="strategy" value="{{.Slug}}"{{if .Checked}} checked{{end}}> {{.Name}}</label>
{{end}}</fieldset>
<button type="submit">Update</button>
</form>
<div class="output">
{{if .Message}}<p class="message">{{.Message}}</p>
{{else if .Chart}}{{template "chart" .Chart}}
<table class="summary">
<tr><th>Strategy</th><th>Best</th><th>Worst</th><th>Breakeven</th></tr>
{{range .Summaries}}<tr><td><svg width="10" height="10"><rect width="10" height="10" fill="{{.Color}}"/></svg> {{.Name}}</td><td>{{.Best}}</td><td>{{.Worst}}</td><td>{{.Breakevens}}</td></tr>
{{end}}</table>
{{end}}</div>
</div>
</body>
</html>
{{define "chart"}}<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" font-family="sans-serif" font-size="10">
<text x="{{.CenterX}}" y="22" text-anchor="middle" font-size="13">{{.Title}}</text>
<text x="{{.CenterX}}" y="40" text-anchor="middle" fill="#555">{{.Subtitle}}</text>
<rect x="{{.Left}}" y="{{.Top}}" width="{{.PlotW}}" height="{{.PlotH}}" fill="#e5ecf6"/>
{{$c := .}}{{range .YTicks}}<line x1="{{$c.Left}}" x2="{{$c.Right}}" y1="{{.Pos}}" y2="{{.Pos}}" stroke="#fff"/>
<text x="{{$c.Left}}" dx="-6" y="{{.Pos}}" dy="3" text-anchor="end">{{.Label}}</text>
{{end}}{{range .XTicks}}<line x1="{{.Pos}}" x2="{{.Pos}}" y1="{{$c.Top}}" y2="{{$c.Bottom}}" stroke="#fff"/>
<text x="{{.Pos}}" y="{{$c.Bottom}}" dy="14" text-anchor="middle">{{.Label}}</text>
{{end}}{{if .ShowZero}}<line class="zero" x1="{{.Left}}" x2="{{.Right}}" y1="{{.ZeroY}}" y2="{{.ZeroY}}" stroke="gray" stroke-dasharray="6 4"/>
{{end}}{{range .Lines}}<polyline fill="none" stroke="{{.Color}}" stroke-width="2" points="{{.Points}}"><title>{{.Name}}</title></polyline>
{{end}}<g class="legend" transform="translate({{.LegendX}} 0)">
{{range .Lines}}<rect x="0" y="{{.LegendY}}" width="14" height="3" fill="{{.Color}}"/>
<text x="18" y="{{.LegendY}}" dy="4">{{.Name}}</text>
{{end}}</g>
<text x="{{.CenterX}}" y="{{.Height}}" dy="-12" text-anchor="middle">{{.XLabel}}</text>
<text transform="translate(16 {{.CenterY}}) rotate(-90)" text-anchor="middle">{{.YLabel}}</text>
</svg>{{end}}`
