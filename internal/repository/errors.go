// Package repository contains data access logic separated from HTTP
// handlers. Each repository is a concrete struct over *sql.DB with
// context-first methods. The sentinel errors defined here let handlers
// map failures to HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrUsernameExists is returned by UserRepo.Create when the username is
// already taken. Handlers report it as a field-specific conflict.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned by UserRepo.Create when the email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a username or user ID matches no
// row. The principal resolver treats it as an absent account.
var ErrUserNotFound = errors.New("user not found")

// ErrNotFound is returned by the habit, goal and record repositories
// when the requested row does not exist.
var ErrNotFound = errors.New("not found")
