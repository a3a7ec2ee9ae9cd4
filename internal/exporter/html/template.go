package html

// MissingReportTemplate lists every household with members missing a name or age
const MissingReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Missing Member Data{{with .Summary.RunDate}} - {{.}}{{end}}</title>
    <style>
        body { margin: 0; font: 14px/1.5 system-ui, sans-serif; background: #fafafa; color: #222; }
        main { max-width: 1100px; margin: 0 auto; padding: 24px 16px; }
        h1 { margin: 0 0 4px; font-size: 1.6em; }
        .source { color: #666; margin-bottom: 20px; }
        .counts { display: flex; flex-wrap: wrap; gap: 8px; margin-bottom: 24px; }
        .counts span { background: #fff; border: 1px solid #ddd; border-radius: 4px; padding: 6px 12px; }
        .counts b { color: #1f5f99; margin-right: 4px; }
        .household { background: #fff; border: 1px solid #ddd; border-radius: 4px; padding: 12px 16px; margin-bottom: 16px; }
        .household h2 { margin: 0 0 4px; font-size: 1.1em; }
        .meta, .members { color: #666; font-size: 0.9em; }
        table { width: 100%; border-collapse: collapse; margin: 8px 0; }
        th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #eee; }
        th { background: #f2f2f2; }
        td.missing { background: #fdecea; color: #b03a2e; }
        .empty { padding: 32px; text-align: center; color: #2e7d32; }
    </style>
</head>
<body>
<main>
    <h1>Missing Member Data</h1>
    <div class="source">{{with .Summary.SourceFile}}{{.}} | {{end}}{{.Summary.RunDate}}</div>

    <div class="counts">
        <span><b>{{.Summary.Households}}</b>households</span>
        <span><b>{{.Summary.GeneratedRows}}</b>member rows</span>
        <span><b>{{.Summary.Findings}}</b>members missing data</span>
        <span><b>{{.Summary.MissingNames}}</b>missing names</span>
        <span><b>{{.Summary.MissingAges}}</b>missing ages</span>
        <span><b>{{.Summary.CorrectedCounts}}</b>corrected counts</span>
    </div>

    {{if not .Households}}
    <div class="empty">No missing data found.</div>
    {{end}}

    {{range .Households}}
    <div class="household">
        <h2>Household {{orDash .HouseholdID}}</h2>
        <div class="meta">Area: {{orDash .Area}} | Contact: {{orDash .ContactNo}} | Sheet row {{.SourceRow}}</div>
        <table>
            <thead>
                <tr><th>Block</th><th>Member ID</th><th>Name</th><th>Age</th></tr>
            </thead>
            <tbody>
            {{range .Findings}}
                <tr>
                    <td>{{inc .Block}}</td>
                    <td>{{.MemberID}}</td>
                    <td{{if .MissingName}} class="missing"{{end}}>{{orDash .Name}}</td>
                    <td{{if .MissingAge}} class="missing"{{end}}>{{orDash .Age}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
        {{if .Members}}
        <div class="members">All members:
            {{range $i, $m := .Members}}{{if $i}}, {{end}}{{orDash $m.Name}} ({{orDash $m.Age}}){{end}}
        </div>
        {{end}}
    </div>
    {{end}}

    {{if .Warnings}}
    <div class="household">
        <h2>Row warnings</h2>
        <table>
            <thead><tr><th>Row</th><th>Column</th><th>Value</th><th>Detail</th></tr></thead>
            <tbody>
            {{range .Warnings}}
                <tr><td>{{.Row}}</td><td>{{.Column}}</td><td>{{.Raw}}</td><td>{{.Detail}}</td></tr>
            {{end}}
            </tbody>
        </table>
    </div>
    {{end}}
</main>
</body>
</html>
`
