// Package student содержит доменную модель студента Boostly.
//
// Это ядро бизнес-логики системы "Boostly" - ledger взаимного признания
// студентов. Пакет определяет:
//
//   - Сущности (Entities): Student
//   - Value Objects: Name, Balance
//   - Интерфейсы репозиториев: Repository, Cache
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Минимальные зависимости - только стандартная библиотека и domain/shared
//  2. Dependency Inversion - определяет интерфейсы, которые реализуются в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в сущностях
//
// # Философия проекта
//
// "Признание важнее конкуренции" - каждый студент ежемесячно получает
// кредиты признания и раздаёт их тем, кто ему помог. Полученные кредиты
// накапливаются пожизненно и обмениваются на ваучеры.
//
// # Основные сущности
//
// Student - центральная сущность, хранит два счётчика: расходуемый
// баланс (current_balance) и пожизненный счёт полученного признания
// (credits_received_total). Перевод net-zero: баланс отправителя
// уменьшается, баланс получателя растёт на ту же сумму, и параллельно
// растёт его пожизненный счёт. Пожизненный счёт никогда не уменьшается.
//
//	student, err := NewStudent(NewStudentParams{
//	    ID:   uuid.New().String(),
//	    Name: "Имя Студента",
//	})
//
// # Жизненный цикл баланса
//
// Раз в календарный месяц баланс сбрасывается:
//
//	carry := student.ApplyMonthlyReset(now)   // перенос до 50 кредитов
//	// balance = 100 + carry, monthly_sent = 0
//
// Сброс запускается снаружи: фоновой задачей первого числа месяца или
// административным триггером. Повторный запуск в том же месяце - no-op.
package student
