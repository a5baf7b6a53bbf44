package model

// Account represents a registered user record as stored in the
// `account` table.  The primary key is a string chosen by the
// registrant at sign-up time, not an auto-increment value, and it
// never changes afterwards.  Profile attributes are stored as-is;
// the application only checks that they are present.
//
// Fields:
//  ID           – primary key, chosen by the registrant, immutable.
//  PasswordHash – bcrypt hashed password; plaintext is never stored.
//  Name         – display name of the registrant.
//  School       – school attribute, opaque to the application.
//  Birthdate    – birthdate attribute, opaque to the application.
type Account struct {
    ID           string // account.id
    PasswordHash string // account.password_hash
    Name         string // account.name
    School       string // account.school
    Birthdate    string // account.birthdate
}
