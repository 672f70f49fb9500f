package mill

import "errors"

// ExpectedNodeError reports a Run or Stringify call that could resolve no
// tree, neither from the explicit argument nor from the file's namespace
// space.
type ExpectedNodeError struct {
	Op string
}

func (e *ExpectedNodeError) Error() string {
	return "mill: " + e.Op + ": expected a parsed tree, found none"
}

// IsExpectedNode reports whether err is an ExpectedNodeError.
func IsExpectedNode(err error) bool {
	var target *ExpectedNodeError
	return errors.As(err, &target)
}
