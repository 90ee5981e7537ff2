package errs

const (
	BizCodeInvalidParams = 1001
	BizCodeUnauthorized  = 1002

	BizCodeNotConfigured     = 7001
	BizCodeBusy              = 7002
	BizCodeNetwork           = 7003
	BizCodeParse             = 7004
	BizCodeReleaseNotFound   = 7005
	BizCodeInvalidSize       = 7006
	BizCodeOpenStagingFailed = 7007
	BizCodeWrite             = 7008
	BizCodeIncompleteImage   = 7009
)
