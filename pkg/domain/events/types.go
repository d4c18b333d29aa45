package events

// EventTypes maps each wire type name to a constructor used when decoding from a bus.
var EventTypes = map[string]func() Event{
	EventTypeAccountOpened.String():     func() Event { return &AccountOpened{} },
	EventTypeAccountRenamed.String():    func() Event { return &AccountRenamed{} },
	EventTypeAccountClosed.String():     func() Event { return &AccountClosed{} },
	EventTypeTransferCompleted.String(): func() Event { return &TransferCompleted{} },
	EventTypeInterestCredited.String():  func() Event { return &InterestCredited{} },
}
