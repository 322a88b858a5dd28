package apperr

import "github.com/m-mizutani/goerr/v2"

// KV store related keys
var (
	AccountKey   = goerr.NewTypedKey[string]("account")
	NamespaceKey = goerr.NewTypedKey[string]("namespace")
	EntryKeyKey  = goerr.NewTypedKey[string]("entry_key")
	RevisionKey  = goerr.NewTypedKey[int]("revision")
	CurrentKey   = goerr.NewTypedKey[int]("current_revision")
)

// Config identity related keys
var (
	TeamKey           = goerr.NewTypedKey[string]("team")
	UsernameKey       = goerr.NewTypedKey[string]("username")
	ConversationIDKey = goerr.NewTypedKey[string]("conversation_id")
	URLTokenKey       = goerr.NewTypedKey[string]("url_token")
	SubscriptionIDKey = goerr.NewTypedKey[int64]("subscription_id")
)

// Processing related keys
var (
	OperationKey  = goerr.NewTypedKey[string]("operation")
	RetryCountKey = goerr.NewTypedKey[int]("retry_count")
	StorageKeyKey = goerr.NewTypedKey[string]("storage_key")
)
