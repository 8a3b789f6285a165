/*
Package ports declares the interfaces between the session manager and its
storage adapters.

The manager only ever talks to a Store; which concrete backend sits behind it
(file, redis, memory) is a pure configuration concern, and all backends must
satisfy identical externally observable semantics.
*/
package ports
