package challenge

import "errors"

// ErrUnsolvable indicates the descriptor does not match the challenge
// scheme this solver was built for. It signals that the provider changed
// its defenses and a new solver version is required; retrying will not
// help.
var ErrUnsolvable = errors.New("challenge not solvable by this client version")
