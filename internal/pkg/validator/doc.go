// Package validator validates request and domain structs with
// go-playground/validator and returns field errors keyed in snake_case.
//
// Custom tags:
//
//	password  8 to 72 characters
//	phone     optional "+", optional leading "1", then 9 to 15 digits
//	otpcode   exactly six digits
//	language  one of the supported UI languages (en, hi)
package validator
