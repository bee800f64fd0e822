/*
Package migration implements lazy, per-record schema migration.

Every persisted entity is a closed tagged union: one concrete type per schema
generation, all implementing Versioned. A variant knows its own schema
version and how to build its immediate successor. Stored values are never
rewritten eagerly. A record keeps the shape it was written in until it is
accessed through Bucket.Get, which walks it to the latest variant and writes
the result back, so each record pays the upgrade cost at most once.

Adding a schema generation means adding one new variant and one new Upgrade
arm on the previous latest variant. Existing variants are never modified,
which keeps already persisted data decodable.

Queries registered through Bucket.Register return the data exactly as
stored. They never migrate nor write.
*/
package migration
