package capitalist

import (
	"bytes"
	"html/template"
)

var autoSubmitTmpl = template.Must(template.New("pay").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<form method="POST" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

// RenderAutoSubmitForm renders a page that posts req to the gateway as soon as it loads.
func RenderAutoSubmitForm(req *PaymentRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := autoSubmitTmpl.Execute(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
