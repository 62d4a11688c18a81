package main

import (
	"github.com/pkg/errors"
)

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

type errUnauthorized struct{}

func (errUnauthorized) Error() string { return "not allowed" }

type errInvalidMatch struct{}

func (errInvalidMatch) Error() string { return "winner cannot be the same as loser" }

type errDuplicate struct{}

func (errDuplicate) Error() string { return "a pending match between these players already exists" }

func isNotFound(err error) bool {
	_, ok := errors.Cause(err).(errNotFound)
	return ok
}

func isUnauthorized(err error) bool {
	_, ok := errors.Cause(err).(errUnauthorized)
	return ok
}

func isInvalidMatch(err error) bool {
	_, ok := errors.Cause(err).(errInvalidMatch)
	return ok
}

func isDuplicate(err error) bool {
	_, ok := errors.Cause(err).(errDuplicate)
	return ok
}

// describe turns an error from the ladder into the reason shown in the channel.
// Anything that isn't one of the known kinds is a storage failure.
func describe(err error) string {
	switch errors.Cause(err).(type) {
	case nil:
		return ""
	case errNotFound:
		return "No pending match with that id."
	case errUnauthorized:
		return "That match isn't yours to change."
	case errInvalidMatch:
		return "You can't play yourself."
	case errDuplicate:
		return "There's already a pending match between you two."
	}

	return "Something went wrong saving that, try again later."
}
