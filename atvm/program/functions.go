package program

import "fmt"

// Function is a host function number as carried by the EXT_FUN* opcodes.
type Function int32

// Demo functions numbered below 0x100
const (
	DEMO_VALUE       Function = 1  // value / echo
	DEMO_COUNTER     Function = 2  // counter / double / multiply
	DEMO_SIZE        Function = 3  // size / halve / divide
	DEMO_ID          Function = 4  // own number / sum
	DEMO_BALANCE     Function = 25 // balance, rewinds fixtures
	DEMO_PAY_ALL     Function = 26 // pay whole balance
	DEMO_PAY         Function = 31 // pay amount to account
	DEMO_BALANCE_ALT Function = 32
	DEMO_PAY_ALL_ALT Function = 33
)

// Register transfer functions
const (
	GET_A1           Function = 0x0100
	GET_A2           Function = 0x0101
	GET_A3           Function = 0x0102
	GET_A4           Function = 0x0103
	GET_B1           Function = 0x0104
	GET_B2           Function = 0x0105
	GET_B3           Function = 0x0106
	GET_B4           Function = 0x0107
	SET_A1           Function = 0x0110
	SET_A2           Function = 0x0111
	SET_A3           Function = 0x0112
	SET_A4           Function = 0x0113
	SET_A1_A2        Function = 0x0114
	SET_A3_A4        Function = 0x0115
	SET_B1           Function = 0x0116
	SET_B2           Function = 0x0117
	SET_B3           Function = 0x0118
	SET_B4           Function = 0x0119
	SET_B1_B2        Function = 0x011a
	SET_B3_B4        Function = 0x011b
	CLEAR_A          Function = 0x0120
	CLEAR_B          Function = 0x0121
	CLEAR_A_AND_B    Function = 0x0122
	COPY_A_FROM_B    Function = 0x0123
	COPY_B_FROM_A    Function = 0x0124
	CHECK_A_IS_ZERO  Function = 0x0125
	CHECK_B_IS_ZERO  Function = 0x0126
	CHECK_A_EQUALS_B Function = 0x0127
	SWAP_A_AND_B     Function = 0x0128
	OR_A_WITH_B      Function = 0x0129
	OR_B_WITH_A      Function = 0x012a
	AND_A_WITH_B     Function = 0x012b
	AND_B_WITH_A     Function = 0x012c
	XOR_A_WITH_B     Function = 0x012d
	XOR_B_WITH_A     Function = 0x012e
)

// Hash functions
const (
	MD5_A_TO_B             Function = 0x0200
	CHECK_MD5_A_WITH_B     Function = 0x0201
	HASH160_A_TO_B         Function = 0x0202
	CHECK_HASH160_A_WITH_B Function = 0x0203
	SHA256_A_TO_B          Function = 0x0204
	CHECK_SHA256_A_WITH_B  Function = 0x0205
)

// Chain queries
const (
	GET_BLOCK_TIMESTAMP       Function = 0x0300
	GET_CREATION_TIMESTAMP    Function = 0x0301
	GET_LAST_BLOCK_TIMESTAMP  Function = 0x0302
	PUT_LAST_BLOCK_HASH_IN_A  Function = 0x0303
	A_TO_TX_AFTER_TIMESTAMP   Function = 0x0304
	GET_TYPE_FOR_TX_IN_A      Function = 0x0305
	GET_AMOUNT_FOR_TX_IN_A    Function = 0x0306
	GET_TIMESTAMP_FOR_TX_IN_A Function = 0x0307
	GET_RANDOM_ID_FOR_TX_IN_A Function = 0x0308
	MESSAGE_FROM_TX_IN_A_TO_B Function = 0x0309
	B_TO_ADDRESS_OF_TX_IN_A   Function = 0x030a
	B_TO_ADDRESS_OF_CREATOR   Function = 0x030b
)

// Balance and payments
const (
	GET_CURRENT_BALANCE      Function = 0x0400
	GET_PREVIOUS_BALANCE     Function = 0x0401
	SEND_TO_ADDRESS_IN_B     Function = 0x0402
	SEND_ALL_TO_ADDRESS_IN_B Function = 0x0403
	SEND_OLD_TO_ADDRESS_IN_B Function = 0x0404
	SEND_A_TO_ADDRESS_IN_B   Function = 0x0405
	ADD_MINUTES_TO_TIMESTAMP Function = 0x0406
)

type functionInfo struct {
	name     string
	expected Opcode // call shape the function is meant to be used with
}

var functionTable = map[Function]functionInfo{
	GET_A1:           {"Get_A1", EXT_FUN_RET},
	GET_A2:           {"Get_A2", EXT_FUN_RET},
	GET_A3:           {"Get_A3", EXT_FUN_RET},
	GET_A4:           {"Get_A4", EXT_FUN_RET},
	GET_B1:           {"Get_B1", EXT_FUN_RET},
	GET_B2:           {"Get_B2", EXT_FUN_RET},
	GET_B3:           {"Get_B3", EXT_FUN_RET},
	GET_B4:           {"Get_B4", EXT_FUN_RET},
	SET_A1:           {"Set_A1", EXT_FUN_DAT},
	SET_A2:           {"Set_A2", EXT_FUN_DAT},
	SET_A3:           {"Set_A3", EXT_FUN_DAT},
	SET_A4:           {"Set_A4", EXT_FUN_DAT},
	SET_A1_A2:        {"Set_A1_A2", EXT_FUN_DAT_2},
	SET_A3_A4:        {"Set_A3_A4", EXT_FUN_DAT_2},
	SET_B1:           {"Set_B1", EXT_FUN_DAT},
	SET_B2:           {"Set_B2", EXT_FUN_DAT},
	SET_B3:           {"Set_B3", EXT_FUN_DAT},
	SET_B4:           {"Set_B4", EXT_FUN_DAT},
	SET_B1_B2:        {"Set_B1_B2", EXT_FUN_DAT_2},
	SET_B3_B4:        {"Set_B3_B4", EXT_FUN_DAT_2},
	CLEAR_A:          {"Clear_A", EXT_FUN},
	CLEAR_B:          {"Clear_B", EXT_FUN},
	CLEAR_A_AND_B:    {"Clear_A_And_B", EXT_FUN},
	COPY_A_FROM_B:    {"Copy_A_From_B", EXT_FUN},
	COPY_B_FROM_A:    {"Copy_B_From_A", EXT_FUN},
	CHECK_A_IS_ZERO:  {"Check_A_Is_Zero", EXT_FUN_RET},
	CHECK_B_IS_ZERO:  {"Check_B_Is_Zero", EXT_FUN_RET},
	CHECK_A_EQUALS_B: {"Check_A_Equals_B", EXT_FUN_RET},
	SWAP_A_AND_B:     {"Swap_A_and_B", EXT_FUN},
	OR_A_WITH_B:      {"OR_A_with_B", EXT_FUN},
	OR_B_WITH_A:      {"OR_B_with_A", EXT_FUN},
	AND_A_WITH_B:     {"AND_A_with_B", EXT_FUN},
	AND_B_WITH_A:     {"AND_B_with_A", EXT_FUN},
	XOR_A_WITH_B:     {"XOR_A_with_B", EXT_FUN},
	XOR_B_WITH_A:     {"XOR_B_with_A", EXT_FUN},

	MD5_A_TO_B:             {"MD5_A_To_B", EXT_FUN},
	CHECK_MD5_A_WITH_B:     {"Check_MD5_A_With_B", EXT_FUN_RET},
	HASH160_A_TO_B:         {"HASH160_A_To_B", EXT_FUN},
	CHECK_HASH160_A_WITH_B: {"Check_HASH160_A_With_B", EXT_FUN_RET},
	SHA256_A_TO_B:          {"SHA256_A_To_B", EXT_FUN},
	CHECK_SHA256_A_WITH_B:  {"Check_SHA256_A_With_B", EXT_FUN_RET},

	GET_BLOCK_TIMESTAMP:       {"Get_Block_Timestamp", EXT_FUN_RET},
	GET_CREATION_TIMESTAMP:    {"Get_Creation_Timestamp", EXT_FUN_RET},
	GET_LAST_BLOCK_TIMESTAMP:  {"Get_Last_Block_Timestamp", EXT_FUN_RET},
	PUT_LAST_BLOCK_HASH_IN_A:  {"Put_Last_Block_Hash_In_A", EXT_FUN},
	A_TO_TX_AFTER_TIMESTAMP:   {"A_To_Tx_After_Timestamp", EXT_FUN_DAT},
	GET_TYPE_FOR_TX_IN_A:      {"Get_Type_For_Tx_In_A", EXT_FUN_RET},
	GET_AMOUNT_FOR_TX_IN_A:    {"Get_Amount_For_Tx_In_A", EXT_FUN_RET},
	GET_TIMESTAMP_FOR_TX_IN_A: {"Get_Timestamp_For_Tx_In_A", EXT_FUN_RET},
	GET_RANDOM_ID_FOR_TX_IN_A: {"Get_Random_Id_For_Tx_In_A", EXT_FUN_RET},
	MESSAGE_FROM_TX_IN_A_TO_B: {"Message_From_Tx_In_A_To_B", EXT_FUN},
	B_TO_ADDRESS_OF_TX_IN_A:   {"B_To_Address_Of_Tx_In_A", EXT_FUN},
	B_TO_ADDRESS_OF_CREATOR:   {"B_To_Address_Of_Creator", EXT_FUN},

	GET_CURRENT_BALANCE:      {"Get_Current_Balance", EXT_FUN_RET},
	GET_PREVIOUS_BALANCE:     {"Get_Previous_Balance", EXT_FUN_RET},
	SEND_TO_ADDRESS_IN_B:     {"Send_To_Address_In_B", EXT_FUN_DAT},
	SEND_ALL_TO_ADDRESS_IN_B: {"Send_All_To_Address_In_B", EXT_FUN},
	SEND_OLD_TO_ADDRESS_IN_B: {"Send_Old_To_Address_In_B", EXT_FUN},
	SEND_A_TO_ADDRESS_IN_B:   {"Send_A_To_Address_In_B", EXT_FUN},
	ADD_MINUTES_TO_TIMESTAMP: {"Add_Minutes_To_Timestamp", EXT_FUN_RET_DAT_2},
}

// IsDemo reports whether f is one of the small console demo numbers.
func (f Function) IsDemo() bool {
	return f < 0x100
}

// Name is the catalogue name, or 0x%04x for an uncatalogued number.
func (f Function) Name() string {
	if info, ok := functionTable[f]; ok {
		return info.name
	}
	return fmt.Sprintf("0x%04x", uint16(f))
}

// Expected returns the opcode a catalogued function is meant to be called with.
func (f Function) Expected() (Opcode, bool) {
	info, ok := functionTable[f]
	return info.expected, ok
}

// IsChainQuery reports whether f is answered by the host environment rather
// than the VM itself.
func (f Function) IsChainQuery() bool {
	return (f >= GET_BLOCK_TIMESTAMP && f <= B_TO_ADDRESS_OF_CREATOR) || f == ADD_MINUTES_TO_TIMESTAMP
}

// FunctionLabel names f as a listing shows it: demo numbers in decimal,
// catalogued numbers by name with a marker when op is not the expected call shape.
func FunctionLabel(f Function, op Opcode) string {
	if f.IsDemo() {
		return fmt.Sprintf("%d", f)
	}
	label := f.Name()
	if expected, ok := f.Expected(); ok && op != 0 && op != expected {
		label += " *** invalid op ***"
	}
	return label
}

// Functions lists the catalogued numbers in ascending order.
func Functions() []Function {
	out := make([]Function, 0, len(functionTable))
	for f := Function(0x0100); f <= 0x0406; f++ {
		if _, ok := functionTable[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
