// Package core provides the business logic of the sales manager.
//
// This package holds all domain rules independent of any UI or transport
// layer. The web handlers and the provisioning command both drive it
// through [Service].
//
// # Architecture
//
// The package is organized around the operations a shop owner performs:
//
//   - Authentication: [Service.Login] and [Service.Logout] move an explicit
//     session between Anonymous and Authenticated.
//   - Catalog: products with a unique name and a non-negative price.
//   - Sales: each sale copies the product's current price as a snapshot.
//   - Reporting: per-day summaries, inclusive date-range reports, daily
//     totals and a two-sheet spreadsheet export.
//   - Statistics: revenue per day over all history.
//   - Audit: every mutation and login attempt is recorded.
//
// # Connections
//
// Every operation opens its own connection from a [Opener] and closes it on
// all exit paths. A failed acquisition is reported as [ErrConnection]; the
// operation is aborted and the process keeps serving.
//
// # Error Handling
//
// Domain failures are sentinel errors checked with errors.Is. [MapError]
// turns any error into a Portuguese user message with a support code:
//
//   - AUTH001: invalid credentials
//   - CAT001-CAT005: catalog errors
//   - VEN001-VEN002: sales errors
//   - REL001-REL002: report errors
//   - DB001-DB006: database errors
package core
