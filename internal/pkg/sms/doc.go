// Package sms delivers text messages. Twilio is the production driver and Log
// prints the message instead of sending it, which is what development
// environments use to read OTP codes.
package sms
