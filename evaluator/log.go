package evaluator

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("symjit.evaluator")
