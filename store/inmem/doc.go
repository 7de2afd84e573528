// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package inmem implements the store DAO interface in process memory. This
implementation is meant to help get an instance up and running quickly
without a need to set up a redis server. Since it is neither shared between
instances nor scalable, it is recommended for test environments only.
*/
package inmem
