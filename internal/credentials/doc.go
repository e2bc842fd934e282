// Package credentials validates usernames and passwords before an account
// is created.
//
// Username rules are fixed and checked in-process. Password rules are a
// versioned Policy; the same rules are installed in the database as
// validate_password(), and a Validator can use either checker.
package credentials
