package helpers

type reqCtxKey string

// ReqCtxSkipOnBeforeHook marks requests that must bypass the auth hook, the token refresh uses it
const ReqCtxSkipOnBeforeHook reqCtxKey = "skip_on_before_hook"
