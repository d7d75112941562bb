// Package dotenv parses the line structure of env configuration files.
//
// envseal never interprets variable values; it only needs to know, per line,
// whether the line is data to encrypt or formatting to pass through. Parse
// classifies each line into a tagged variant (Blank, Comment, Assignment,
// Other) so that decision is a pure function of the variant rather than
// scattered prefix checks.
//
// The package also owns the two format constants shared by the codec and the
// keystore: the reserved variable name that stores the secret key
// (ENV_SECURE_KEY) and the comment marker (#).
//
// Lines keep their raw text. Splitting and joining preserve content exactly,
// except that a well-formed file always ends with a single trailing newline.
package dotenv
