package i18n

var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":               "Invalid request body",
		"error.internal":                  "Internal server error",
		"error.not_found":                 "Not found",
		"error.too_many_requests":         "Too many requests, please try again later",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter unavailable",
		"error.link_fields_required":      "title, to, and amount are required",
		"error.invalid_account":           "to must match Hedera account format N.N.N (e.g., 0.0.1234)",
		"error.invalid_amount":            "amount must be a positive number",
		"error.invalid_link_id":           "id may only contain letters, digits, '-', '_', '.' and '~' (max 80)",
		"error.link_not_found":            "Link not found",
		"error.link_list_failed":          "Failed to load links",
		"error.link_save_failed":          "Failed to save link",
		"error.link_delete_failed":        "Failed to delete link",
		"error.slug_exhausted":            "Could not allocate a unique link id",
		"error.payment_fields_required":   "linkId and amount are required",
		"error.invalid_payment_status":    "status must be one of submitted, success, failed",
		"error.payment_save_failed":       "Failed to record payment",
		"error.generate_fields_required":  "recipient and prompt are required",
		"error.llm_key_missing":           "Missing OPENAI_API_KEY on server",
		"error.llm_provider":              "OpenAI error: %d %s",
		"error.llm_request_failed":        "OpenAI request failed",
		"error.llm_empty":                 "Empty LLM response",
		"error.llm_invalid_json":          "LLM did not return valid JSON",
		"error.llm_invalid_amount":        "LLM returned invalid amount",
		"error.transfer_fields_required":  "Missing toAccountId or amountHbar",
		"error.transfer_invalid_account":  "Invalid toAccountId",
		"error.transfer_invalid_amount":   "amountHbar must be a positive number",
		"error.transfer_build_failed":     "Failed to build transfer",
		"error.wallet_token_required":     "Wallet session token required",
		"error.wallet_token_invalid":      "Invalid or expired wallet session",
		"error.wallet_session_not_found":  "Wallet session not found",
		"error.wallet_pairing_expired":    "Pairing window expired, start a new session",
		"error.wallet_invalid_state":      "Wallet session is not in a valid state for this action",
		"error.wallet_not_paired":         "Wallet is not paired",
		"error.wallet_signed_tx_required": "linkId and signedTransactionBase64 are required",
		"error.wallet_signed_tx_invalid":  "signedTransactionBase64 is not a valid signed transfer",
		"error.wallet_submit_failed":      "Transaction submission failed",
		"error.wallet_unavailable":        "Wallet session store unavailable",
		"page.not_found_title":            "Link not found",
		"page.not_found_body":             "This payment link does not exist or was removed.",
		"page.fallback_title":             "Payment",
	},
	LocaleZhCN: {
		"error.bad_request":               "请求参数错误",
		"error.internal":                  "服务器内部错误",
		"error.not_found":                 "资源不存在",
		"error.too_many_requests":         "请求过于频繁，请稍后再试",
		"error.rate_limited":              "请求过于频繁，请在 %d 秒后重试",
		"error.rate_limit_unavailable":    "限流服务不可用",
		"error.link_fields_required":      "title、to、amount 为必填项",
		"error.invalid_account":           "to 必须符合 Hedera 账户格式 N.N.N（例如 0.0.1234）",
		"error.invalid_amount":            "amount 必须为正数",
		"error.invalid_link_id":           "id 只能包含字母、数字、'-'、'_'、'.'、'~'（最多 80 位）",
		"error.link_not_found":            "支付链接不存在",
		"error.link_list_failed":          "加载支付链接失败",
		"error.link_save_failed":          "保存支付链接失败",
		"error.link_delete_failed":        "删除支付链接失败",
		"error.slug_exhausted":            "无法分配唯一的链接ID",
		"error.payment_fields_required":   "linkId 与 amount 为必填项",
		"error.invalid_payment_status":    "status 只能是 submitted、success、failed",
		"error.payment_save_failed":       "记录支付失败",
		"error.generate_fields_required":  "recipient 与 prompt 为必填项",
		"error.llm_key_missing":           "服务端未配置 OPENAI_API_KEY",
		"error.llm_provider":              "OpenAI 错误：%d %s",
		"error.llm_request_failed":        "OpenAI 请求失败",
		"error.llm_empty":                 "模型返回为空",
		"error.llm_invalid_json":          "模型未返回合法 JSON",
		"error.llm_invalid_amount":        "模型返回的金额无效",
		"error.transfer_fields_required":  "缺少 toAccountId 或 amountHbar",
		"error.transfer_invalid_account":  "toAccountId 无效",
		"error.transfer_invalid_amount":   "amountHbar 必须为正数",
		"error.transfer_build_failed":     "构建转账交易失败",
		"error.wallet_token_required":     "缺少钱包会话令牌",
		"error.wallet_token_invalid":      "钱包会话无效或已过期",
		"error.wallet_session_not_found":  "钱包会话不存在",
		"error.wallet_pairing_expired":    "配对超时，请重新发起会话",
		"error.wallet_invalid_state":      "钱包会话状态不允许该操作",
		"error.wallet_not_paired":         "钱包尚未配对",
		"error.wallet_signed_tx_required": "linkId 与 signedTransactionBase64 为必填项",
		"error.wallet_signed_tx_invalid":  "signedTransactionBase64 不是有效的已签名转账",
		"error.wallet_submit_failed":      "交易提交失败",
		"error.wallet_unavailable":        "钱包会话存储不可用",
		"page.not_found_title":            "链接不存在",
		"page.not_found_body":             "该支付链接不存在或已被删除。",
		"page.fallback_title":             "支付",
	},
}
