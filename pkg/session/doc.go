/*
Package session implements the session manager: the facade callers use to
create, read, write, and destroy expiring sessions over a pluggable storage
backend.

The manager owns the lifecycle policy. Expiry is a sliding window, re-armed
on every successful access and enforced lazily: an expired record is deleted
and reported as not found the next time it is touched, without waiting for
any cleanup pass. Operations on the same session ID are serialized through a
per-ID critical section, so concurrent writers cannot interleave; the last
writer to enter the critical section wins, and its value is stored whole.
*/
package session
