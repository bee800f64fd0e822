/*
Package funding keeps a ledger of deposits made by funders and a set of
balance records, both persisted under schemas that changed over the lifetime
of the chain.

Balance records exist as BalancesV0 and BalancesV1. The aggregate root that
owns the funders and records collections exists as ContractV0 and ContractV1,
the latter adding a nonce counting deposits. Nothing is migrated eagerly:

  - a record is upgraded the first time it is read through get_record and
    the upgraded form is written back,
  - the root is upgraded the first time it is mutated by a deposit.

Reads (nonce, deposited balance, queries) never upgrade nor write, so a chain
that only ever reads keeps reporting a nonce of zero for a legacy root.
*/
package funding
