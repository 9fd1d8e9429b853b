package admin

import (
	"errors"
	"strings"
)

// Action is a privileged maintenance command.
type Action string

// remember to add new actions to the actions map
const (
	ActionInitVendors  Action = "init-vendors"
	ActionResetCaches  Action = "reset-caches"
	ActionSyncCaches   Action = "sync-caches"
	ActionDeleteOrders Action = "delete-orders"
)

type actionInfo struct {
	label   string
	warning string
}

var actions = map[Action]actionInfo{
	ActionInitVendors:  {label: "Init Vendors", warning: "This will initialize the vendor list."},
	ActionResetCaches:  {label: "Reset Caches", warning: "This will reset all caches."},
	ActionSyncCaches:   {label: "Sync Caches", warning: "This will sync all caches."},
	ActionDeleteOrders: {label: "Delete All Orders", warning: "This will delete ALL orders permanently."},
}

// Actions lists the actions in display order.
func Actions() []Action {
	return []Action{ActionInitVendors, ActionResetCaches, ActionSyncCaches, ActionDeleteOrders}
}

func ParseAction(s string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := actions[action]; ok {
		return action, nil
	}

	return "", errors.New("invalid admin action")
}

func (a Action) Label() string {
	return actions[a].label
}

// Warning is the text of the confirmation prompt.
func (a Action) Warning() string {
	return actions[a].warning
}
