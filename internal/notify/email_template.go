package notify

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Run digest {{.Date}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #14532d 0%, #1f2937 100%);
      color: #ffffff;
    }

    .date {
      font-size: 24px;
      font-weight: 700;
      letter-spacing: 0.05em;
      margin-bottom: 4px;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
    }

    .section-title {
      font-size: 11px;
      font-weight: 700;
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.1em;
      margin-bottom: 12px;
    }

    .counts td {
      padding: 2px 12px 2px 0;
      font-size: 14px;
    }

    .post {
      font-size: 14px;
      padding: 4px 0;
    }

    .note {
      font-size: 13px;
      color: #92400e;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="date">Run digest {{.Date}}</div>
    </div>

    <div class="section">
      <div class="section-title">Counts</div>
      <table class="counts">
        <tr><td>Results fetched</td><td>{{.Fetched}}</td></tr>
        <tr><td>Already posted</td><td>{{.AlreadyPosted}}</td></tr>
        <tr><td>Published</td><td>{{len .Published}}</td></tr>
        <tr><td>Duplicates marked</td><td>{{.Duplicates}}</td></tr>
        <tr><td>Errors</td><td>{{.Errors}}</td></tr>
      </table>
    </div>

    {{if .Published}}
    <div class="section">
      <div class="section-title">Published</div>
      {{range .Published}}
      <div class="post">{{.Off}} {{.Course}} &mdash; race {{.RaceID}}, post {{.PostID}}</div>
      {{end}}
    </div>
    {{end}}

    {{if or .Capped .RateLimitAbort}}
    <div class="section">
      {{if .Capped}}<div class="note">Run cap reached; remaining races roll over to the next run.</div>{{end}}
      {{if .RateLimitAbort}}<div class="note">Run aborted on a rate limit; remaining races roll over to the next run.</div>{{end}}
    </div>
    {{end}}
  </div>
</body>
</html>
`
