/*
Package app turns a handler stack into an ABCI application.

App keeps the committed store, a cache for the transactions of the current
block and one for CheckTx, and writes the block cache down on Commit.
Messages reach their handler through the Router, wrapped by a chain of
decorators.

Query responses carry their keys and values as two ResultSet messages of
equal length.
*/
package app
