/*
Package errors implements the error kinds shared by all packages of this
repository.

Reuse root errors declared in this package whenever possible. Extensions may
register their own root error using Register(code, description). Code stands
for ABCI error code, which allows to distinguish types of errors on the client
side and act accordingly.

Wrap an error using Wrap or Wrapf at the point of creation to attach a
stacktrace. If you wrap multiple times, only the first wrap records the
stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

Panics are used only for invariant violations, for example when a persisted
entity carries a schema version the code does not know about. Those are
converted into ErrPanic by Recover at the dispatch boundary.
*/
package errors
