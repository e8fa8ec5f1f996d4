// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mailer delivers password reset emails.
//
// Two implementations are provided:
//   - SMTPMailer sends an HTML message through an SMTP relay using go-mail.
//   - LogMailer writes the reset link to the log and sends nothing. It is
//     selected when no SMTP host is configured and is meant for local runs.
//
// Both satisfy service.Mailer. Use New to pick one from configuration.
package mailer
