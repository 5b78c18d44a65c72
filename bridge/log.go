package bridge

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("symjit.bridge")
