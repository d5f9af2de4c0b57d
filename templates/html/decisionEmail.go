package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderDecisionEmail wraps plain text in the branded HTML used for access request
// decision mail. Both arguments are escaped; newlines in body become <br>.
func RenderDecisionEmail(subject, body string) string {
	htmlBody := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
	safeSubject := html.EscapeString(subject)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: Georgia, 'Times New Roman', serif; margin: 0; padding: 0; background-color: #f4f1ea; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border: 1px solid #d8d2c4; }
    .header { background-color: #1f2a44; padding: 28px 30px; text-align: center; }
    .header h1 { color: #f4f1ea; margin: 0; font-size: 20px; }
    .content { padding: 32px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .footer { padding: 20px 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer"><p>Court Records Office. This message was sent automatically, please do not reply.</p></div>
  </div>
</body>
</html>`, safeSubject, safeSubject, htmlBody)
}
