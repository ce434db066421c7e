package ledger

// Persisted key layout on the contract store. Existing deployments already
// hold data under these keys, so the naming is frozen.
const (
	// IndexKey holds the JSON array of all candidate ids in creation order.
	IndexKey = "candidate_keys"
	// PendingKey holds the JSON array of ids whose creation is in flight.
	PendingKey = "candidate_pending"

	candidatePrefix = "candidate_"
)

// CandidateKey derives the ledger key for a candidate record.
func CandidateKey(id string) string {
	return candidatePrefix + id
}
