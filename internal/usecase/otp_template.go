package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const emailSubject = "Your verification code"

func expiryMinutes(ttl time.Duration) int {
	m := int(ttl.Round(time.Minute) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

func smsMessage(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your verification code is %s. It expires in %d minutes. Do not share this code with anyone.",
		code, expiryMinutes(ttl))
}

var emailTemplate = template.Must(template.New("otp_email").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f4f4f7;font-family:Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:24px;">
        <table width="480" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">
          <tr>
            <td style="background:#1f6f50;color:#ffffff;padding:20px;border-radius:8px 8px 0 0;">
              <h2 style="margin:0;">{{.AppName}}</h2>
            </td>
          </tr>
          <tr>
            <td style="padding:24px;color:#333333;">
              <p>Use the following code to complete your verification:</p>
              <p style="font-size:32px;font-weight:bold;letter-spacing:8px;text-align:center;margin:24px 0;">{{.Code}}</p>
              <p>This code expires in {{.Minutes}} minutes.</p>
              <p>If you did not request this code, you can safely ignore this email.</p>
            </td>
          </tr>
          <tr>
            <td style="padding:16px;color:#999999;font-size:12px;text-align:center;">
              Do not share this code with anyone. {{.AppName}} will never ask you for it.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

func emailBody(appName, code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		AppName string
		Code    string
		Minutes int
	}{
		AppName: appName,
		Code:    code,
		Minutes: expiryMinutes(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("render otp email: %w", err)
	}
	return buf.String(), nil
}
