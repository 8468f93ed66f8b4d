// Package keychain implements the keychain facade: an access guard in
// front of an arbitrary credential data source.
//
// The facade holds no durable state of its own. The initialized flag, the
// authentication state and the items all live in the DataSource; the
// Keychain enforces lifecycle rules around them:
//   - Init is a one-shot operation per data source lifetime
//   - Unlock requires an initialized data source
//   - item reads, item writes and password changes require an unlocked
//     keychain
//
// Backend rejections are translated into keychain vocabulary at this
// boundary: a data source signalling ErrUnauthenticated surfaces to the
// caller as ErrLocked, a wrong password surfaces as ErrWrongPassword
// unchanged. The facade performs no retries and no recovery.
package keychain
