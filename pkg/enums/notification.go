package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeContractSent        NotificationType = "contract_sent"
	NotificationTypeContractConfirmed   NotificationType = "contract_confirmed"
	NotificationTypeContractSigned      NotificationType = "contract_signed"
	NotificationTypeContractLocked      NotificationType = "contract_locked"
	NotificationTypeContractRejected    NotificationType = "contract_rejected"
	NotificationTypeContractResent      NotificationType = "contract_resent"
	NotificationTypeContractReminder    NotificationType = "contract_reminder"
	NotificationTypeApplicationReceived NotificationType = "application_received"
	NotificationTypeApplicationApproved NotificationType = "application_approved"
	NotificationTypeApplicationDeclined NotificationType = "application_declined"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeContractSent,
	NotificationTypeContractConfirmed,
	NotificationTypeContractSigned,
	NotificationTypeContractLocked,
	NotificationTypeContractRejected,
	NotificationTypeContractResent,
	NotificationTypeContractReminder,
	NotificationTypeApplicationReceived,
	NotificationTypeApplicationApproved,
	NotificationTypeApplicationDeclined,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
