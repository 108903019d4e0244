// Package session provides session management for the pathfinder.
//
// A session owns one editable board built from a board configuration, plus
// the config id it came from and its creation and last access times.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Callers may also pick
// their own ID (letters, digits, '-' and '_'). Lookups are case-insensitive.
//
// Persistence:
//
// NewManagerWithPersistence attaches a SessionPersistence. FilePersistence
// writes one JSON file per session holding the board labels, the path
// overlay and the config id. Sessions missing from memory are loaded lazily
// on Get, and LoadPersistedSessions warms the cache at startup.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Create("", "classic", configMgr.GetDefault())
//
// The manager is safe for concurrent use. Mutating a session's board is the
// caller's responsibility to serialize; the board service does so.
package session
