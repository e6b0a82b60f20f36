package public

import (
	"errors"

	handlershared "github.com/hbarlink/internal/http/handlers/shared"
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/i18n"
	"github.com/hbarlink/internal/llm"
	"github.com/hbarlink/internal/service"
	"github.com/hbarlink/internal/wallet"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var linkWriteErrorRules = []mappedHandlerError{
	{target: service.ErrLinkFieldsRequired, code: response.CodeBadRequest, key: "error.link_fields_required"},
	{target: service.ErrInvalidAccount, code: response.CodeBadRequest, key: "error.invalid_account"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, key: "error.invalid_amount"},
	{target: service.ErrInvalidLinkID, code: response.CodeBadRequest, key: "error.invalid_link_id"},
	{target: service.ErrLinkNotFound, code: response.CodeNotFound, key: "error.link_not_found"},
	{target: service.ErrSlugExhausted, code: response.CodeConflict, key: "error.slug_exhausted"},
}

var paymentRecordErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentFieldsRequired, code: response.CodeBadRequest, key: "error.payment_fields_required"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, key: "error.invalid_amount"},
	{target: service.ErrInvalidPaymentStatus, code: response.CodeBadRequest, key: "error.invalid_payment_status"},
}

var generateErrorRules = []mappedHandlerError{
	{target: service.ErrGenerateFieldsRequired, code: response.CodeBadRequest, key: "error.generate_fields_required"},
	{target: service.ErrLLMKeyMissing, code: response.CodeInternal, key: "error.llm_key_missing"},
	{target: service.ErrLLMEmpty, code: response.CodeBadGateway, key: "error.llm_empty"},
	{target: service.ErrLLMInvalidJSON, code: response.CodeBadGateway, key: "error.llm_invalid_json"},
	{target: service.ErrLLMInvalidAmount, code: response.CodeBadGateway, key: "error.llm_invalid_amount"},
	{target: service.ErrUpstream, code: response.CodeBadGateway, key: "error.llm_request_failed"},
}

var transferErrorRules = []mappedHandlerError{
	{target: service.ErrTransferFieldsRequired, code: response.CodeBadRequest, key: "error.transfer_fields_required"},
	{target: service.ErrTransferInvalidAccount, code: response.CodeBadRequest, key: "error.transfer_invalid_account"},
	{target: service.ErrTransferInvalidAmount, code: response.CodeBadRequest, key: "error.transfer_invalid_amount"},
}

var walletSessionErrorRules = []mappedHandlerError{
	{target: wallet.ErrSessionNotFound, code: response.CodeNotFound, key: "error.wallet_session_not_found"},
	{target: wallet.ErrPairingExpired, code: response.CodeConflict, key: "error.wallet_pairing_expired"},
	{target: wallet.ErrInvalidState, code: response.CodeConflict, key: "error.wallet_invalid_state"},
	{target: wallet.ErrNotPaired, code: response.CodeForbidden, key: "error.wallet_not_paired"},
	{target: wallet.ErrInvalidAccount, code: response.CodeBadRequest, key: "error.invalid_account"},
}

var walletPayExtraErrorRules = []mappedHandlerError{
	{target: service.ErrSignedTransferRequired, code: response.CodeBadRequest, key: "error.wallet_signed_tx_required"},
	{target: service.ErrSignedTransferInvalid, code: response.CodeBadRequest, key: "error.wallet_signed_tx_invalid"},
	{target: service.ErrLinkNotFound, code: response.CodeNotFound, key: "error.link_not_found"},
	{target: service.ErrLedgerSubmitFailed, code: response.CodeBadGateway, key: "error.wallet_submit_failed"},
}

func respondLinkWriteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, linkWriteErrorRules, response.CodeInternal, "error.link_save_failed")
}

func respondPaymentRecordError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentRecordErrorRules, response.CodeInternal, "error.payment_save_failed")
}

// respondGenerateError 上游非 2xx 时透出状态码与响应体
func respondGenerateError(c *gin.Context, err error) {
	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.llm_provider", providerErr.Status, providerErr.Body)
		handlershared.RespondErrorWithMsg(c, response.CodeBadGateway, msg, err)
		return
	}
	respondWithMappedError(c, err, generateErrorRules, response.CodeInternal, "error.internal")
}

func respondTransferError(c *gin.Context, err error) {
	respondWithMappedError(c, err, transferErrorRules, response.CodeInternal, "error.transfer_build_failed")
}

func respondWalletSessionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, walletSessionErrorRules, response.CodeUnavailable, "error.wallet_unavailable")
}

func respondWalletPayError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(walletSessionErrorRules, walletPayExtraErrorRules), response.CodeInternal, "error.payment_save_failed")
}
