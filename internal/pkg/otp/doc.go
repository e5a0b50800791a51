// Package otp provides helpers for generating and validating one-time
// passcodes.
//
// Two flavors are supported: short-lived numeric passcodes delivered over a
// side channel such as email, and TOTP (time-based OTP) secrets for
// authenticator apps.
package otp
