package service

import (
	"bytes"
	"html/template"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/models"
)

var payPageTemplate = template.Must(template.New("pay").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body style="margin:0;font-family:Arial,sans-serif;background:#0b1020;">
<main style="position:relative;min-height:100vh;">
<div style="position:absolute;inset:0;overflow:auto;">{{.Component}}</div>
<aside style="position:fixed;right:16px;bottom:16px;background:rgba(15,23,42,0.85);color:#e2e8f0;padding:12px 16px;border-radius:12px;font-size:13px;">
<div style="font-weight:600;">{{.Amount}} HBAR</div>
<div style="font-size:11px;opacity:0.7;">Total: {{.TotalPaid}} HBAR • {{.PaymentsCount}} payments</div>
<button id="pay-button" type="button" style="margin-top:8px;width:100%;padding:8px;border:0;border-radius:8px;background:#22c55e;color:#fff;font-weight:600;cursor:pointer;">Pay</button>
</aside>
</main>
<script type="application/json" id="link-data">{{.Data}}</script>
<script>
(function () {
  var data = JSON.parse(document.getElementById("link-data").textContent);
  document.getElementById("pay-button").addEventListener("click", function () {
    fetch("/api/tx/transfer", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ toAccountId: data.to_account, amountHbar: data.amount, memo: data.memo })
    })
      .then(function (res) { return res.json(); })
      .then(function (tpl) {
        window.dispatchEvent(new CustomEvent("hbarlink:transfer", { detail: { link: data, template: tpl } }));
      });
  });
})();
</script>
</body>
</html>
`))

// payPageData 页面脚本读取的链接数据
type payPageData struct {
	ID       string  `json:"id"`
	To       string  `json:"to_account"`
	Amount   string  `json:"amount"`
	Memo     *string `json:"memo"`
	Network  string  `json:"network"`
	Currency string  `json:"currency"`
}

// RenderPage 渲染完整支付页面
func (s *PresentationService) RenderPage(link *models.PaymentLink, network string) (string, error) {
	component, err := s.Resolve(link)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = payPageTemplate.Execute(&buf, map[string]interface{}{
		"Title":         link.Title,
		"Component":     template.HTML(component),
		"Amount":        link.Amount.String(),
		"TotalPaid":     link.TotalPaid.String(),
		"PaymentsCount": link.PaymentsCount,
		"Data": payPageData{
			ID:       link.ID,
			To:       link.ToAccount,
			Amount:   link.Amount.String(),
			Memo:     link.Memo,
			Network:  network,
			Currency: constants.DefaultLedgerCurrency,
		},
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
