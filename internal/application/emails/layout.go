package emails

import (
	"fmt"
	"strings"
	"time"
)

const (
	themePrimary = "#2E7D32"
	themeBgBody  = "#F1F8E9"
	themeText    = "#1F2937"
)

// EmailLayout wraps content in the branded HTML shell.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>AgriConnect</title>
</head>
<body style="margin:0;padding:0;background-color:%s;font-family:Arial,Helvetica,sans-serif;color:%s;">
  <table role="presentation" width="100%%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding:32px 0;">
        <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="background:#FFFFFF;border-radius:8px;">
          <tr><td style="padding:24px 40px;border-bottom:4px solid %s;font-size:22px;font-weight:700;color:%s;">AgriConnect</td></tr>
          <tr><td style="padding:24px 40px;font-size:15px;line-height:1.6;">%s</td></tr>
          <tr><td style="padding:16px 40px;font-size:12px;color:#6B7280;">&copy; %d AgriConnect. Turning farm waste into value.</td></tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, themeBgBody, themeText, themePrimary, themePrimary, contentHTML, time.Now().Year())
}

// EscapeHTML escapes HTML specials for safe interpolation.
func EscapeHTML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
