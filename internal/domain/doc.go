// Package domain holds the ZRTP core's data model and the narrow
// capability interfaces (types/, interfaces/) that the wire codec, key
// schedule, and state machine share without depending on each other's
// concrete packages.
package domain
