/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package errors

const errorPrefix = "CCS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Advisory lock acquisition failed.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error generating advisory lock key.",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Invalid response from advisory lock query.",
	}

	ADD_DOMAIN = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while registering domain.",
	}

	FETCH_DOMAIN = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while fetching domain(s).",
	}

	UPDATE_DOMAIN = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while updating domain.",
	}

	DELETE_DOMAIN = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while removing domain.",
	}

	ADD_CONFIGURATION = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while saving banner configuration.",
	}

	FETCH_CONFIGURATION = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while fetching banner configuration.",
	}

	ADD_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while recording consent decision.",
	}

	FETCH_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while fetching consent record.",
	}

	AUDIT_WRITE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while writing audit event.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while un-marshalling JSON.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Parsing token failed.",
	}

	VERIFICATION_FETCH = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while fetching the verification file.",
	}

	TOKEN_GENERATION = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while generating verification token.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Forbidden",
		Description: "You do not have permission to access this resource.",
	}

	DUPLICATE_DOMAIN = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Domain already registered.",
		Description: "A domain with the same hostname already exists for this account.",
	}

	DOMAIN_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Domain not found.",
		Description: "No registered domain found for the given domain_id.",
	}

	VERIFICATION_FAILED = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Domain verification failed.",
		Description: "The verification file could not be confirmed on the hostname. Upload the file and retry.",
	}

	CONFIGURATION_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "Banner configuration not found.",
		Description: "No banner configuration has been saved for this domain.",
	}

	INVALID_DECISION = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Invalid consent decision.",
	}

	DOMAIN_NOT_REGISTERED = ErrorMessage{
		Code:        errorPrefix + "11009",
		Message:     "Domain not registered.",
		Description: "No registered domain found for the requesting hostname.",
	}

	INVALID_CONFIGURATION = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Banner configuration validation failed.",
	}

	INVALID_HOSTNAME = ErrorMessage{
		Code:    errorPrefix + "11011",
		Message: "Invalid hostname.",
	}
)
