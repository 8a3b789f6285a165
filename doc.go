/*
Package satchel is a pluggable, expiring session store.

It persists opaque session records keyed by an identifier, with a sliding
expiry window and at-most-one-writer-per-session consistency. Storage is
abstracted behind a narrow interface with interchangeable backends: a local
file directory, a Redis-compatible cache service, or process memory.

# Usage

Select a backend through configuration and open a manager:

	cfg := satchel.DefaultConfig()
	cfg.Backend = satchel.BackendFile
	cfg.File.Directory = "/var/lib/myapp/sessions"

	manager, closeStore, err := satchel.Open(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	id, err := manager.Create(ctx, map[string]any{"user": "alice"})
	data, err := manager.Read(ctx, id) // slides the expiry window
	err = manager.Write(ctx, id, map[string]any{"user": "alice", "theme": "dark"})
	err = manager.Destroy(ctx, id)

Swapping backends changes persistence and latency characteristics only;
the manager's observable contract is identical across them.

Authentication is explicitly out of scope: satchel stores and expires
records, it does not verify who they belong to.
*/
package satchel
